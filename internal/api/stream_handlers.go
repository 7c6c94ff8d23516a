package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/http/response"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/sse"
)

// registerStreamRoutes mounts the SSE endpoints directly on the router;
// huma operations cannot hold a response open.
func (s *Server) registerStreamRoutes() {
	s.router.Route("/api/v1/stream", func(r chi.Router) {
		r.Get("/shelves", s.handleShelfStream)
		r.Get("/friends", s.handleFriendStream)
		r.Get("/notifications", s.handleNotificationStream)
	})
}

func (s *Server) handleShelfStream(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	sub, err := s.services.Shelves.SubscribeShelves(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, logger.FromContext(r.Context(), s.logger))
		return
	}
	defer sub.Close()

	sse.Serve(s.sseHandler, w, r, sse.EventShelvesSnapshot, sub)
}

func (s *Server) handleFriendStream(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	sub, err := s.services.Friends.SubscribeFriends(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, logger.FromContext(r.Context(), s.logger))
		return
	}
	defer sub.Close()

	sse.Serve(s.sseHandler, w, r, sse.EventFriendsSnapshot, sub)
}

func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	sub, err := s.services.Notifications.SubscribeNotifications(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, logger.FromContext(r.Context(), s.logger))
		return
	}
	defer sub.Close()

	sse.Serve(s.sseHandler, w, r, sse.EventNotificationsSnapshot, sub)
}
