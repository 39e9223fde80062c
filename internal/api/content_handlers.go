package api

import (
	"errors"
	"net/http"

	"otlabs.dev/labgate/internal/content"
)

func (s *Server) handleBlogList(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.catalog.BlogPosts())
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.catalog.BlogPost(r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Blog post not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch blog post")
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

func (s *Server) handleProtocolPages(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.catalog.Protocols())
}

func (s *Server) handleProtocolPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.Protocol(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Protocol not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch protocol")
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (s *Server) handleToolList(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.catalog.Tools())
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	tool, err := s.catalog.Tool(r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Tool not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch tool")
		return
	}
	WriteJSON(w, http.StatusOK, tool)
}
