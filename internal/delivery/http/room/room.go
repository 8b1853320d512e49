package http_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/rawfidkshuvo/king-police-backend/internal/delivery/http/common"
	ws_room "github.com/rawfidkshuvo/king-police-backend/internal/delivery/ws/room"
	"github.com/rawfidkshuvo/king-police-backend/internal/model"
	"github.com/rawfidkshuvo/king-police-backend/internal/service/normalizer"
	usecase_game "github.com/rawfidkshuvo/king-police-backend/internal/usecase/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	usecase *usecase_game.Usecase
	hub     *ws_room.Hub

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_game.Usecase, hub *ws_room.Hub, opts ...ControllerOption) *Controller {
	c := &Controller{
		usecase: usecase,
		hub:     hub,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	rooms := router.Group("/rooms")
	{
		rooms.POST("", c.create)
		rooms.GET("", c.list)
	}

	room := router.Group("/rooms/:room_code")
	{
		room.GET("", c.snapshot)
		room.GET("/ws", c.roomWS)
		room.POST("/players", c.join)
		room.DELETE("/players/:name", c.leave)
		room.POST("/start", c.start)
		room.POST("/guesses", c.guess)
		room.POST("/restart", c.restart)
	}
}

type CreateRoomRequestDTO struct {
	RoomCode string `json:"room_code" binding:"required"`
}

type CreateRoomResponseDTO struct {
	RoomCode string `json:"room_code"`
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateRoomRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "incorrect request"})
		return
	}

	events, err := c.usecase.CreateRoom(ctx.Request.Context(), req.RoomCode)
	if err != nil {
		c.fail(ctx, "failed to create room", err)
		return
	}
	c.hub.Broadcast(events)

	ctx.JSON(http.StatusCreated, CreateRoomResponseDTO{RoomCode: req.RoomCode})
}

type ListRoomsResponseDTO struct {
	Rooms []model.RoomCode `json:"rooms"`
}

func (c *Controller) list(ctx *gin.Context) {
	codes, err := c.usecase.Rooms(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, "failed to list rooms", err)
		return
	}

	ctx.JSON(http.StatusOK, ListRoomsResponseDTO{Rooms: codes})
}

func (c *Controller) snapshot(ctx *gin.Context) {
	code := ctx.Param("room_code")

	snap, err := c.usecase.Snapshot(ctx.Request.Context(), code)
	if err != nil {
		c.fail(ctx, "failed to read room", err)
		return
	}

	ctx.JSON(http.StatusOK, snap)
}

type JoinRequestDTO struct {
	Name string `json:"name" binding:"required"`
}

func (c *Controller) join(ctx *gin.Context) {
	code := ctx.Param("room_code")

	var req JoinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "incorrect request"})
		return
	}

	events, err := c.usecase.Join(ctx.Request.Context(), code, req.Name)
	if err != nil {
		c.fail(ctx, "failed to join room", err)
		return
	}
	c.hub.Broadcast(events)

	ctx.Status(http.StatusOK)
}

func (c *Controller) leave(ctx *gin.Context) {
	code := ctx.Param("room_code")
	name := ctx.Param("name")

	events, err := c.usecase.Leave(ctx.Request.Context(), code, name)
	if err != nil {
		c.fail(ctx, "failed to leave room", err)
		return
	}
	c.hub.Broadcast(events)

	ctx.Status(http.StatusOK)
}

func (c *Controller) start(ctx *gin.Context) {
	code := ctx.Param("room_code")

	events, err := c.usecase.Start(ctx.Request.Context(), code)
	if err != nil {
		c.fail(ctx, "failed to start game", err)
		return
	}
	c.hub.Broadcast(events)

	ctx.Status(http.StatusOK)
}

type GuessRequestDTO struct {
	Robber string `json:"robber" binding:"required"`
	Thief  string `json:"thief"`
}

func (c *Controller) guess(ctx *gin.Context) {
	code := ctx.Param("room_code")

	var req GuessRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "incorrect request"})
		return
	}

	events, err := c.usecase.Guess(ctx.Request.Context(), code, model.Guess{
		Robber: req.Robber,
		Thief:  req.Thief,
	})
	if err != nil {
		c.fail(ctx, "failed to resolve guess", err)
		return
	}
	c.hub.Broadcast(events)

	ctx.Status(http.StatusOK)
}

func (c *Controller) restart(ctx *gin.Context) {
	code := ctx.Param("room_code")

	events, err := c.usecase.Restart(ctx.Request.Context(), code)
	if err != nil {
		c.fail(ctx, "failed to restart game", err)
		return
	}
	c.hub.Broadcast(events)

	ctx.Status(http.StatusOK)
}

func (c *Controller) roomWS(ctx *gin.Context) {
	// Canonicalize like the usecase does: events are stamped with the
	// normalized code, so the client must be registered under it too.
	code := normalizer.Name(ctx.Param("room_code"))
	name := normalizer.Name(ctx.Query("name"))

	if _, err := c.usecase.Snapshot(ctx.Request.Context(), code); err != nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "room not found"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	c.hub.NewClient(conn, model.RoomCode(code), name)
}

// fail maps usecase errors onto HTTP statuses.
func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	c.logger.Error(msg, slog.String("error", err.Error()))

	switch {
	case errors.Is(err, usecase_game.ErrRoomNotFound),
		errors.Is(err, usecase_game.ErrUnknownPlayer):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: err.Error()})
	case errors.Is(err, usecase_game.ErrAlreadyExists),
		errors.Is(err, usecase_game.ErrDuplicateName),
		errors.Is(err, usecase_game.ErrNotEnoughPlayers),
		errors.Is(err, usecase_game.ErrWrongPhase):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: err.Error()})
	case errors.Is(err, usecase_game.ErrEmptyName):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
	}
}
