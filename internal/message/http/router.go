package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/messagely/messagely/internal/common/errors"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/jwtverify"
	"github.com/messagely/messagely/internal/common/logger"
	"github.com/messagely/messagely/internal/message/service"
)

type sendRequest struct {
	ToUsername string `json:"to_username" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

type profileResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type messageResponse struct {
	ID           string     `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

type detailResponse struct {
	ID       string          `json:"id"`
	Body     string          `json:"body"`
	SentAt   time.Time       `json:"sent_at"`
	ReadAt   *time.Time      `json:"read_at"`
	FromUser profileResponse `json:"from_user"`
	ToUser   profileResponse `json:"to_user"`
}

type readReceiptResponse struct {
	ID     string    `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

type Handler struct {
	messages *service.MessageService
	validate *validator.Validate
	log      *logger.Logger
}

// NewHandler serves /messages, /messages/{id} and /messages/{id}/read.
// The caller mounts it behind the token-verification middleware.
func NewHandler(messages *service.MessageService, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		messages: messages,
		validate: validator.New(),
		log:      log,
	}

	withTimeout := commonhttp.WithTimeout(requestTimeout)
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.send)))
	mux.HandleFunc("/messages/", withTimeout(h.byID))
	return mux
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	claims, _ := jwtverify.FromContext(r.Context())

	var req sendRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("send failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingField.WithCause(err), h.log)
		return
	}

	msg, err := h.messages.Send(r.Context(), claims.Username, req.ToUsername, req.Body)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": messageResponse{
			ID:           msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Body:         msg.Body,
			SentAt:       msg.SentAt,
			ReadAt:       msg.ReadAt,
		},
	})
}

func (h *Handler) byID(w http.ResponseWriter, r *http.Request) {
	id, rest, ok := splitMessagePath(r.URL.Path)
	if !ok {
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path")
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case rest == "read" && r.Method == http.MethodPost:
		h.markRead(w, r, id)
	case rest == "" || rest == "read":
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
	default:
		commonhttp.WriteError(w, http.StatusNotFound, commonhttp.CodeInvalidPath, "not found")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id string) {
	claims, _ := jwtverify.FromContext(r.Context())

	detail, err := h.messages.Get(r.Context(), claims.Username, id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"msg": detailResponse{
			ID:     detail.ID,
			Body:   detail.Body,
			SentAt: detail.SentAt,
			ReadAt: detail.ReadAt,
			FromUser: profileResponse{
				Username:  detail.From.Username,
				FirstName: detail.From.FirstName,
				LastName:  detail.From.LastName,
				Phone:     detail.From.Phone,
			},
			ToUser: profileResponse{
				Username:  detail.To.Username,
				FirstName: detail.To.FirstName,
				LastName:  detail.To.LastName,
				Phone:     detail.To.Phone,
			},
		},
	})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request, id string) {
	claims, _ := jwtverify.FromContext(r.Context())

	receipt, err := h.messages.MarkRead(r.Context(), claims.Username, id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": readReceiptResponse{
			ID:     receipt.ID,
			ReadAt: receipt.ReadAt,
		},
	})
}

// splitMessagePath parses /messages/{id} and /messages/{id}/read.
func splitMessagePath(path string) (id, rest string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/messages/")
	if trimmed == path || trimmed == "" {
		return "", "", false
	}

	parts := strings.Split(strings.TrimSuffix(trimmed, "/"), "/")
	switch len(parts) {
	case 1:
		return parts[0], "", parts[0] != ""
	case 2:
		return parts[0], parts[1], parts[0] != ""
	default:
		return "", "", false
	}
}
