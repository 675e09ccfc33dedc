package server

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

// Mutation request bodies are tiny; anything larger is malformed.
const requestBodyMaxSize = 64 * 1024

// Publisher announces task collection changes to subscribed clients.
type Publisher interface {
	Publish(ctx context.Context, payload string) error
}

// redisPublisher publishes change events on a redis pub/sub channel.
type redisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a Publisher for the given channel.
func NewRedisPublisher(client *redis.Client, channel string) Publisher {
	return &redisPublisher{client: client, channel: channel}
}

func (p *redisPublisher) Publish(ctx context.Context, payload string) error {
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Server serves the pairtask REST API for one two-person workspace.
type Server struct {
	store  *memStore
	pub    Publisher
	logger *log.Logger
}

// New creates a Server for the given allow-listed member emails. Member IDs
// are derived deterministically from the email so assignee references stay
// stable across restarts. pub may be nil when no broker is configured.
func New(allowedEmails []string, pub Publisher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	members := make([]models.Profile, 0, len(allowedEmails))
	for _, email := range allowedEmails {
		members = append(members, models.Profile{
			ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)).String(),
			Email: email,
		})
	}
	return &Server{store: newMemStore(members), pub: pub, logger: logger}
}

// Register wires up all API routes on the provided Echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/api/tasks", s.getTasks)
	e.POST("/api/tasks", s.postTask)
	e.PATCH("/api/tasks/:id", s.patchTask)
	e.DELETE("/api/tasks/:id", s.deleteTask)
	e.GET("/api/members", s.getMembers)
	e.GET("/healthz", s.healthz)
}

// Run starts the server on the given listen address, blocking until the
// context is cancelled.
func (s *Server) Run(ctx context.Context, listen string) error {
	e := echo.New()
	e.HideBanner = true
	s.Register(e)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()

	s.logger.WithField("listen", listen).Info("pairtask server starting")
	if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// authenticate resolves the calling member from the bearer token. The
// allow-list policy itself lives in configuration; here it is enforced
// mechanically: unknown members get 403.
func (s *Server) authenticate(c echo.Context) (models.Profile, bool) {
	header := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return models.Profile{}, false
	}
	for _, m := range s.store.Members() {
		if m.Email == token {
			return m, true
		}
	}
	return models.Profile{}, false
}

func (s *Server) getTasks(c echo.Context) error {
	member, ok := s.authenticate(c)
	if !ok {
		return c.String(http.StatusForbidden, "not on the workspace allow-list")
	}
	tasks := s.store.AllTasks()
	s.logger.WithFields(log.Fields{"member": member.Email, "count": len(tasks)}).Debug("tasks fetched")
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) postTask(c echo.Context) error {
	member, ok := s.authenticate(c)
	if !ok {
		return c.String(http.StatusForbidden, "not on the workspace allow-list")
	}

	var draft models.Task
	if err := decodeBody(c, &draft); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}
	title, err := core.NormalizeTitle(draft.Title)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	memo, err := core.NormalizeMemo(draft.Memo)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	draft.Title = title
	draft.Memo = memo
	if !models.ValidPriority(draft.Priority) {
		draft.Priority = models.PriorityMedium
	}
	if draft.Status != models.StatusDone {
		draft.Status = models.StatusOpen
	}

	created := s.store.Insert(draft, member.ID)
	s.publishChange(c.Request().Context())
	s.logger.WithFields(log.Fields{"member": member.Email, "id": created.ID}).Info("task created")
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) patchTask(c echo.Context) error {
	member, ok := s.authenticate(c)
	if !ok {
		return c.String(http.StatusForbidden, "not on the workspace allow-list")
	}

	var patch models.TaskPatch
	if err := decodeBody(c, &patch); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}
	if patch.Title != nil {
		title, err := core.NormalizeTitle(*patch.Title)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		patch.Title = &title
	}
	if patch.Memo != nil {
		memo, err := core.NormalizeMemo(*patch.Memo)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		patch.Memo = &memo
	}

	id := c.Param("id")
	updated, found := s.store.Update(id, patch)
	if !found {
		return c.String(http.StatusNotFound, "task not found")
	}
	s.publishChange(c.Request().Context())
	s.logger.WithFields(log.Fields{"member": member.Email, "id": updated.ID}).Info("task updated")
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteTask(c echo.Context) error {
	member, ok := s.authenticate(c)
	if !ok {
		return c.String(http.StatusForbidden, "not on the workspace allow-list")
	}

	id := c.Param("id")
	if !s.store.Delete(id) {
		return c.String(http.StatusNotFound, "task not found")
	}
	s.publishChange(c.Request().Context())
	s.logger.WithFields(log.Fields{"member": member.Email, "id": id}).Info("task deleted")
	return c.NoContent(http.StatusOK)
}

func (s *Server) getMembers(c echo.Context) error {
	if _, ok := s.authenticate(c); !ok {
		return c.String(http.StatusForbidden, "not on the workspace allow-list")
	}
	return c.JSON(http.StatusOK, s.store.Members())
}

// publishChange announces that the task collection changed. Clients treat
// any message as "refetch everything", so the payload stays minimal.
func (s *Server) publishChange(ctx context.Context) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, `{"type":"tasks.changed"}`); err != nil {
		s.logger.WithError(err).Error("publishing change event")
	}
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
