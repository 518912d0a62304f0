package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/usecase"
)

const dateLayout = "2006-01-02"

type movieRequest struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
}

type movieResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type actorRequest struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}

type actorResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func toMovieResponse(m domain.Movie) movieResponse {
	return movieResponse{ID: m.ID, Title: m.Title, ReleaseDate: m.ReleaseDate.UTC().Format(dateLayout)}
}

func toActorResponse(a domain.Actor) actorResponse {
	return actorResponse{ID: a.ID, Name: a.Name, Age: a.Age, Gender: a.Gender}
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: release_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return t.UTC(), nil
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		writeStatus(c, http.StatusBadRequest, msgBadRequest)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeStatus(c, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHeaders(c *gin.Context) {
	token, _ := tokenFromContext(c)
	permissions := token.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"subject":     token.Subject,
		"permissions": permissions,
	})
}

func (s *Server) handleListMovies(c *gin.Context) {
	movies, err := s.catalog.ListMovies(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "movies": out})
}

func (s *Server) handleGetMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	movie, err := s.catalog.GetMovie(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "movie": toMovieResponse(movie)})
}

func (s *Server) handleCreateMovie(c *gin.Context) {
	var req movieRequest
	if !bindJSON(c, &req) {
		return
	}
	movie := domain.Movie{}
	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.ReleaseDate != nil {
		date, err := parseDate(*req.ReleaseDate)
		if err != nil {
			writeError(c, err)
			return
		}
		movie.ReleaseDate = date
	}
	created, err := s.catalog.CreateMovie(c.Request.Context(), movie)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "movie": toMovieResponse(created)})
}

func (s *Server) handleUpdateMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req movieRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := usecase.MoviePatch{Title: req.Title}
	if req.ReleaseDate != nil {
		date, err := parseDate(*req.ReleaseDate)
		if err != nil {
			writeError(c, err)
			return
		}
		patch.ReleaseDate = &date
	}
	updated, err := s.catalog.UpdateMovie(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "movie": toMovieResponse(updated)})
}

func (s *Server) handleDeleteMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteMovie(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": id})
}

func (s *Server) handleListActors(c *gin.Context) {
	actors, err := s.catalog.ListActors(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]actorResponse, 0, len(actors))
	for _, a := range actors {
		out = append(out, toActorResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "actors": out})
}

func (s *Server) handleGetActor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, err := s.catalog.GetActor(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "actor": toActorResponse(actor)})
}

func (s *Server) handleCreateActor(c *gin.Context) {
	var req actorRequest
	if !bindJSON(c, &req) {
		return
	}
	actor := domain.Actor{}
	if req.Name != nil {
		actor.Name = *req.Name
	}
	if req.Age != nil {
		actor.Age = *req.Age
	}
	if req.Gender != nil {
		actor.Gender = *req.Gender
	}
	created, err := s.catalog.CreateActor(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "actor": toActorResponse(created)})
}

func (s *Server) handleUpdateActor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req actorRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := s.catalog.UpdateActor(c.Request.Context(), id, usecase.ActorPatch{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "actor": toActorResponse(updated)})
}

func (s *Server) handleDeleteActor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.catalog.DeleteActor(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": id})
}
