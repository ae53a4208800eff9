package holds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinetix/internal/shared/utils/response"
	"cinetix/pkg/logger"
)

// Controller exposes the timer widget's integration contract over HTTP.
type Controller interface {
	GetActiveHolds(c *gin.Context)
	ResumeHold(c *gin.Context)
	ReportLocation(c *gin.Context)
	StreamEvents(c *gin.Context)
}

type controller struct {
	manager *Manager
	emitter *EventEmitter
	tracker *RouteTracker
	log     *logger.Logger
}

// NewController creates the holds HTTP controller.
func NewController(manager *Manager, emitter *EventEmitter, tracker *RouteTracker) Controller {
	return &controller{
		manager: manager,
		emitter: emitter,
		tracker: tracker,
		log:     logger.GetDefault(),
	}
}

// ReportLocationRequest is the client's current-route ping.
type ReportLocationRequest struct {
	Path string `json:"path" binding:"required"`
}

// GetActiveHolds returns the authenticated user's active holds with their
// remaining seconds, ready for the timer widget to render.
func (ctrl *controller) GetActiveHolds(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	views := ctrl.manager.ActiveHoldsForUser(userID)
	response.RespondJSON(c, "success", http.StatusOK, "Active holds retrieved", views, nil)
}

// ResumeHold navigates the user back into an in-progress booking flow.
func (ctrl *controller) ResumeHold(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	bookingID := c.Param("bookingId")
	hold, found := ctrl.manager.Get(bookingID)
	if !found || hold.UserID != userID {
		// Benign: the hold may have expired between render and click.
		response.RespondJSON(c, "success", http.StatusOK, "No active hold for this booking", nil, nil)
		return
	}

	ctrl.manager.ResumeHold(c.Request.Context(), bookingID)
	response.RespondJSON(c, "success", http.StatusOK, "Resuming booking", gin.H{
		"path": hold.Progress.Path,
	}, nil)
}

// ReportLocation records which screen the client is currently on.
func (ctrl *controller) ReportLocation(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req ReportLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ctrl.tracker.SetPath(userID, req.Path)
	response.RespondJSON(c, "success", http.StatusOK, "Location recorded", nil, nil)
}

// StreamEvents streams hold notifications, redirects and countdown ticks to
// the client as Server-Sent Events.
func (ctrl *controller) StreamEvents(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	eventChan := ctrl.emitter.Subscribe(ctx, userID)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	c.Writer.Flush()

	ctrl.log.InfoWithContext(ctx, "Hold event stream connected", map[string]interface{}{
		"user_id": userID,
	})

	// Countdown snapshots tick per-connection so the widget stays current
	// even when no lifecycle event fires.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, open := <-eventChan:
			if !open {
				return
			}
			ctrl.writeEvent(c, event)

		case <-ticker.C:
			views := ctrl.manager.ActiveHoldsForUser(userID)
			if len(views) == 0 {
				continue
			}
			ctrl.writeEvent(c, Event{Type: EventTick, Holds: views})

		case <-ctx.Done():
			ctrl.tracker.Forget(userID)
			return
		}
	}
}

func (ctrl *controller) writeEvent(c *gin.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		ctrl.log.ErrorWithContext(c.Request.Context(), "Failed to serialize hold event", err, nil)
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Type, data)
	c.Writer.Flush()
}

// authenticatedUser pulls the user id set by the JWT middleware.
func authenticatedUser(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return "", false
	}
	return id, true
}
