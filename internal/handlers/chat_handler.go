package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/middleware"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	hub         *events.Hub
}

func NewChatHandler(chatService *services.ChatService, hub *events.Hub) *ChatHandler {
	return &ChatHandler{chatService: chatService, hub: hub}
}

type postMessageInput struct {
	Text string `json:"text" binding:"required"`
}

// @Summary Lease Request Messages
// @Description Get the chat thread of a lease request
// @Tags Chat
// @Produce json
// @Param request_id path int true "Lease Request ID"
// @Param after_id query int false "Return only messages after this ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests/{request_id}/messages [get]
func (h *ChatHandler) RequestMessages(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	afterID, _ := strconv.ParseUint(c.Query("after_id"), 10, 32)

	messages, err := h.chatService.RequestMessages(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), uint(afterID))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, message := range messages {
		responses = append(responses, message.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"messages": responses})
}

// @Summary Post Lease Request Message
// @Description Post a message to the chat thread of an open lease request
// @Tags Chat
// @Accept json
// @Produce json
// @Param request_id path int true "Lease Request ID"
// @Param request body postMessageInput true "Message"
// @Success 201 {object} models.ChatMessageResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests/{request_id}/messages [post]
func (h *ChatHandler) PostRequestMessage(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	var input postMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.PostRequestMessage(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message.ToResponse()})
}

// @Summary Maintenance Messages
// @Description Get the chat thread of a maintenance request
// @Tags Chat
// @Produce json
// @Param request_id path int true "Maintenance Request ID"
// @Param after_id query int false "Return only messages after this ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests/{request_id}/messages [get]
func (h *ChatHandler) MaintenanceMessages(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	afterID, _ := strconv.ParseUint(c.Query("after_id"), 10, 32)

	messages, err := h.chatService.MaintenanceMessages(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), uint(afterID))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, message := range messages {
		responses = append(responses, message.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"messages": responses})
}

// @Summary Post Maintenance Message
// @Description Post a message to the chat thread of an open maintenance request
// @Tags Chat
// @Accept json
// @Produce json
// @Param request_id path int true "Maintenance Request ID"
// @Param request body postMessageInput true "Message"
// @Success 201 {object} models.ChatMessageResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests/{request_id}/messages [post]
func (h *ChatHandler) PostMaintenanceMessage(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	var input postMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.PostMaintenanceMessage(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message.ToResponse()})
}

// @Summary Lease Request Event Stream
// @Description Subscribe to the SSE stream of a lease request thread
// @Tags Chat
// @Produce text/event-stream
// @Param request_id path int true "Lease Request ID"
// @Success 200 {string} string "event stream"
// @Security BearerAuth
// @Router /lease_requests/{request_id}/events [get]
func (h *ChatHandler) StreamRequestEvents(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)

	// Access follows the chat thread rules: reading an empty thread is
	// the cheapest way to run the same ownership check.
	if _, err := h.chatService.RequestMessages(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), 0); err != nil {
		respondError(c, err)
		return
	}

	h.stream(c, events.RequestTopic(uint(id)))
}

// @Summary Maintenance Event Stream
// @Description Subscribe to the SSE stream of a maintenance request thread
// @Tags Chat
// @Produce text/event-stream
// @Param request_id path int true "Maintenance Request ID"
// @Success 200 {string} string "event stream"
// @Security BearerAuth
// @Router /maintenance_requests/{request_id}/events [get]
func (h *ChatHandler) StreamMaintenanceEvents(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)

	if _, err := h.chatService.MaintenanceMessages(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), 0); err != nil {
		respondError(c, err)
		return
	}

	h.stream(c, events.MaintenanceTopic(uint(id)))
}

func (h *ChatHandler) stream(c *gin.Context, topic string) {
	ch, unsubscribe := h.hub.Subscribe(topic)
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event.Kind, event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
