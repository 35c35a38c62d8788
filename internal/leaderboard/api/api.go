// Package api serves the leaderboard over HTTP.
package api

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/verte-zerg/typotester/internal/leaderboard"
	"github.com/verte-zerg/typotester/internal/model"
	"github.com/verte-zerg/typotester/internal/stats"
)

const maxLimit = 100

// Server exposes a leaderboard Store as a JSON API.
type Server struct {
	app      *fiber.App
	store    leaderboard.Store
	validate *validator.Validate
	logger   *log.Logger
}

// New builds the fiber app and its routes.
func New(st leaderboard.Store, logger *log.Logger) *Server {
	s := &Server{
		store:    st,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(func(c *fiber.Ctx) error {
		s.logger.Debug("request", "ip", c.IP(), "method", c.Method(), "path", c.Path())
		return c.Next()
	})

	v1 := app.Group("/api/v1")
	v1.Get("/leaderboard", s.listTop)
	v1.Get("/scores/:identity", s.bestScore)
	v1.Put("/scores", s.submitScore)

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("starting leaderboard API", "address", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) listTop(c *fiber.Ctx) error {
	limit := leaderboard.DefaultTop
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxLimit)
	}
	scores, err := s.store.ListTop(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if scores == nil {
		scores = []model.Score{}
	}
	return c.JSON(scores)
}

func (s *Server) bestScore(c *fiber.Ctx) error {
	identity := c.Params("identity")
	best, err := s.store.BestScore(c.UserContext(), identity)
	if err != nil {
		return err
	}
	if best == nil {
		return fiber.NewError(fiber.StatusNotFound, "no score for identity")
	}
	return c.JSON(best)
}

func (s *Server) submitScore(c *fiber.Ctx) error {
	var score model.Score
	if err := c.BodyParser(&score); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if err := s.validate.Struct(score); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	best, err := s.store.BestScore(c.UserContext(), score.Identity)
	if err != nil {
		return err
	}
	if best != nil && score.WPM <= best.WPM {
		return fiber.NewError(fiber.StatusConflict, "score does not beat the stored best")
	}
	if err := s.store.SubmitScore(c.UserContext(), score); err != nil {
		if errors.Is(err, stats.ErrNotPersonalBest) {
			return fiber.NewError(fiber.StatusConflict, "score does not beat the stored best")
		}
		return err
	}
	s.logger.Info("score saved", "identity", score.Identity, "wpm", score.WPM)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).SendString(errMessage(code, err))
}

func errMessage(code int, err error) string {
	if code == fiber.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
