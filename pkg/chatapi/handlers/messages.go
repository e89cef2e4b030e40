package handlers

import (
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/middleware"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

// DefaultMaxMessageBytes caps a single POST body
const DefaultMaxMessageBytes int64 = 64 * 1024

// MessagesHandler serves the two chat endpoints on "/"
type MessagesHandler struct {
	log      types.MessageLog
	maxBytes int64
}

// NewMessagesHandler creates a handler over the given log. A maxBytes of
// zero or less selects DefaultMaxMessageBytes.
func NewMessagesHandler(messageLog types.MessageLog, maxBytes int64) *MessagesHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxMessageBytes
	}
	return &MessagesHandler{log: messageLog, maxBytes: maxBytes}
}

// Append stores the raw request body as a new message and echoes it back.
func (h *MessagesHandler) Append(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "message exceeds %d bytes", h.maxBytes)
			return
		}
		c.String(http.StatusBadRequest, "failed to read message body")
		return
	}

	if len(body) == 0 {
		c.String(http.StatusBadRequest, "empty message")
		return
	}
	if !utf8.Valid(body) {
		c.String(http.StatusBadRequest, "message is not valid UTF-8")
		return
	}

	msg, err := h.log.Append(c.Request.Context(), string(body))
	if err != nil {
		_ = c.Error(errors.Wrap(err, "append message"))
		c.Status(http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"id":         msg.ID,
	}).Info("Message received")

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(msg.Text))
}

// Dump returns every message in id order as a JSON array.
func (h *MessagesHandler) Dump(c *gin.Context) {
	messages, err := h.log.All(c.Request.Context())
	if err != nil {
		_ = c.Error(errors.Wrap(err, "read messages"))
		c.Status(http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []types.Message{}
	}
	c.JSON(http.StatusOK, messages)
}
