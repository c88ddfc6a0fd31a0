package controllers

import (
	"campusnest/errors"
	"campusnest/middleware"
	"campusnest/response"
	"campusnest/services/logger"
	"campusnest/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// NotificationController runs the moderators' websocket feed.
type NotificationController struct {
	melody   *melody.Melody
	tokens   middleware.TokenParser
	notifier notification.Service
	logger   logger.Logger
}

type NotificationControllerOptions struct {
	Tokens middleware.TokenParser
	Logger logger.Logger
}

func NewNotificationController(opts NotificationControllerOptions, m *melody.Melody) *NotificationController {
	ctrl := &NotificationController{
		melody:   m,
		tokens:   opts.Tokens,
		notifier: notification.NewMelodyService(m),
		logger:   opts.Logger,
	}
	m.HandleConnect(func(s *melody.Session) {
		id, _ := s.Get("userID")
		ctrl.logger.Info("moderator %v connected", id)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		id, _ := s.Get("userID")
		ctrl.logger.Info("moderator %v disconnected", id)
	})
	return ctrl
}

// Connect upgrades an administrator's request to a websocket. Browsers
// cannot set headers on the upgrade, so ?token= is accepted too.
func (n *NotificationController) Connect(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		if token := c.Query("token"); token != "" {
			parsed, err := n.tokens.ParseAccess(token)
			if err != nil {
				response.FromError(c, err)
				return
			}
			actor = parsed
		}
	}
	if actor == nil {
		response.Unauthorized(c, "")
		return
	}
	if !actor.IsAdmin {
		response.FromError(c, errors.Forbidden("Only administrators can follow the moderation feed."))
		return
	}

	keys := map[string]interface{}{
		notification.AdminKey: true,
		"userID":              actor.UserID,
	}
	if err := n.melody.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		n.logger.Error("websocket upgrade for user %d: %v", actor.UserID, err)
	}
}

// NotifyAll pushes an ad-hoc message to every connected moderator.
func (n *NotificationController) NotifyAll(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required,max=500"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := n.notifier.SendMessage(req.Message); err != nil {
		response.FromError(c, errors.NewAppError(errors.ErrCodeUpstream, "Could not notify moderators", err))
		return
	}
	response.Success(c, req.Message)
}
