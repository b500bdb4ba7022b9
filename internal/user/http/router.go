package http

import (
	"net/http"
	"strings"
	"time"

	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/jwtverify"
	"github.com/messagely/messagely/internal/common/logger"
	messagedomain "github.com/messagely/messagely/internal/message/domain"
	messageservice "github.com/messagely/messagely/internal/message/service"
	userdomain "github.com/messagely/messagely/internal/user/domain"
	userservice "github.com/messagely/messagely/internal/user/service"
)

type profileResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type userResponse struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type incomingResponse struct {
	ID       string          `json:"id"`
	Body     string          `json:"body"`
	SentAt   time.Time       `json:"sent_at"`
	ReadAt   *time.Time      `json:"read_at"`
	FromUser profileResponse `json:"from_user"`
}

type outgoingResponse struct {
	ID     string          `json:"id"`
	Body   string          `json:"body"`
	SentAt time.Time       `json:"sent_at"`
	ReadAt *time.Time      `json:"read_at"`
	ToUser profileResponse `json:"to_user"`
}

type Handler struct {
	users    *userservice.UserService
	messages *messageservice.MessageService
	log      *logger.Logger
}

// NewHandler serves /users and /users/{username}[/to|/from]. The caller
// mounts it behind the token-verification middleware.
func NewHandler(
	users *userservice.UserService,
	messages *messageservice.MessageService,
	requestTimeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{users: users, messages: messages, log: log}

	withTimeout := commonhttp.WithTimeout(requestTimeout)
	requireGet := commonhttp.RequireMethod(http.MethodGet)
	mux := http.NewServeMux()
	mux.HandleFunc("/users", requireGet(withTimeout(h.list)))
	mux.HandleFunc("/users/", requireGet(withTimeout(h.byUsername)))
	return mux
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := jwtverify.FromContext(r.Context())

	profiles, err := h.users.List(r.Context(), claims.Username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"users": toProfileResponses(profiles),
	})
}

func (h *Handler) byUsername(w http.ResponseWriter, r *http.Request) {
	username, rest, ok := splitUserPath(r.URL.Path)
	if !ok {
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path")
		return
	}

	claims, _ := jwtverify.FromContext(r.Context())

	switch rest {
	case "":
		h.get(w, r, claims.Username, username)
	case "to":
		h.received(w, r, claims.Username, username)
	case "from":
		h.sent(w, r, claims.Username, username)
	default:
		commonhttp.WriteError(w, http.StatusNotFound, commonhttp.CodeInvalidPath, "not found")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, requester, username string) {
	user, err := h.users.Get(r.Context(), requester, username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Phone:       user.Phone,
			JoinAt:      user.JoinAt,
			LastLoginAt: user.LastLoginAt,
		},
	})
}

func (h *Handler) received(w http.ResponseWriter, r *http.Request, requester, username string) {
	msgs, err := h.messages.ReceivedBy(r.Context(), requester, username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"to": toIncomingResponses(msgs),
	})
}

func (h *Handler) sent(w http.ResponseWriter, r *http.Request, requester, username string) {
	msgs, err := h.messages.SentBy(r.Context(), requester, username)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"from": toOutgoingResponses(msgs),
	})
}

// splitUserPath parses /users/{username} and /users/{username}/{to|from}.
func splitUserPath(path string) (username, rest string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/users/")
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

func toProfileResponse(p userdomain.Profile) profileResponse {
	return profileResponse{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}
}

func toProfileResponses(profiles []userdomain.Profile) []profileResponse {
	result := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, toProfileResponse(p))
	}
	return result
}

func toIncomingResponses(msgs []messagedomain.Incoming) []incomingResponse {
	result := make([]incomingResponse, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, incomingResponse{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: toProfileResponse(m.From),
		})
	}
	return result
}

func toOutgoingResponses(msgs []messagedomain.Outgoing) []outgoingResponse {
	result := make([]outgoingResponse, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, outgoingResponse{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: toProfileResponse(m.To),
		})
	}
	return result
}
