package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"swarmboard/domain"
)

// Register wires up all routes on the provided Echo instance. The read side
// (/api/status, /api/log, /api/stream) is safe to poll at arbitrary
// frequency; the control side mutates the store and is deduplicated by
// idempotency key.
func Register(e *echo.Echo, store Store, colors *ColorAssigner, deduper Deduper, logger *log.Logger) {
	broker := newUpdateBroker()
	store.SetNotifier(broker.notify)

	e.GET("/api/status", getStatus(store, logger))
	e.GET("/api/log", getLog(store))
	e.GET("/api/stream", streamState(store, broker))

	e.POST("/api/init", postInit(store, colors, deduper))
	e.POST("/api/tasks", postTask(store, colors, deduper))
	e.PATCH("/api/tasks/:id", patchTask(store, colors, deduper))
	e.POST("/api/log", postLog(store, colors, deduper))
	e.POST("/api/reset", postReset(store, colors, deduper))

	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getStatus(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newSnapshotRequestMetrics(ctx, logger)
		c.SetRequest(c.Request().WithContext(spanCtx))
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		fetchStart := time.Now()
		snap := store.Snapshot()
		metrics.ObserveFetch(time.Since(fetchStart))
		metrics.SetTasksReturned(len(snap.Tasks))

		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, snap)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getLog(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 0
		if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return c.String(http.StatusBadRequest, "invalid limit")
			}
			limit = n
		}
		snap := store.LogSnapshot()
		if limit > 0 && len(snap.Entries) > limit {
			snap.Entries = snap.Entries[len(snap.Entries)-limit:]
		}
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		return c.JSON(http.StatusOK, snap)
	}
}

func postInit(store Store, colors *ColorAssigner, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, replay := commandKey(c, deduper)
		if replay {
			return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
		}
		var req initRequest
		if err := decodeBody(c, &req); err != nil {
			deduper.Remove(key)
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Title == "" {
			deduper.Remove(key)
			return c.String(http.StatusBadRequest, "title is required")
		}
		store.Init(domain.BoardConfig{
			Title:       req.Title,
			Subtitle:    req.Subtitle,
			ProjectDir:  req.ProjectDir,
			BaselineRef: req.BaselineRef,
		})
		colors.Reset()
		return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
	}
}

func postTask(store Store, colors *ColorAssigner, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, replay := commandKey(c, deduper)
		if replay {
			return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
		}
		var t domain.Task
		if err := decodeBody(c, &t); err != nil {
			deduper.Remove(key)
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if t.Agent != "" {
			if t.AgentColor != "" {
				colors.Set(t.Agent, t.AgentColor)
			} else {
				t.AgentColor = colors.Assign(t.Agent)
			}
		}
		store.CreateTask(t)
		return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
	}
}

func patchTask(store Store, colors *ColorAssigner, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.String(http.StatusBadRequest, "invalid task id")
		}
		key, replay := commandKey(c, deduper)
		if replay {
			return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
		}
		var upd domain.TaskUpdate
		if err := decodeBody(c, &upd); err != nil {
			deduper.Remove(key)
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if upd.Agent != nil && *upd.Agent != "" {
			if upd.AgentColor != nil && *upd.AgentColor != "" {
				colors.Set(*upd.Agent, *upd.AgentColor)
			} else if upd.AgentColor == nil {
				color := colors.Assign(*upd.Agent)
				upd.AgentColor = &color
			}
		}
		store.UpdateTask(id, upd)
		return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
	}
}

func postLog(store Store, colors *ColorAssigner, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, replay := commandKey(c, deduper)
		if replay {
			return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
		}
		var entry domain.LogEntry
		if err := decodeBody(c, &entry); err != nil {
			deduper.Remove(key)
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if entry.Agent != "" {
			if entry.Color != "" {
				colors.Set(entry.Agent, entry.Color)
			} else {
				entry.Color = colors.Assign(entry.Agent)
			}
		}
		store.AppendLog(entry)
		return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
	}
}

func postReset(store Store, colors *ColorAssigner, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, replay := commandKey(c, deduper)
		if replay {
			return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
		}
		store.Reset()
		colors.Reset()
		return c.JSON(http.StatusOK, controlResponse{OK: true, IdempotencyKey: key})
	}
}

// commandKey resolves the idempotency key for a control command and records
// it. The second return is true when the key was already seen and the
// command must not be reapplied. Handlers that reject the command must
// Remove the key so a corrected retry is not dropped as a replay.
func commandKey(c echo.Context, deduper Deduper) (string, bool) {
	key := c.Request().Header.Get(idempotencyKeyHeader)
	if key == "" {
		key = uuid.NewString()
	}
	return key, !deduper.Add(key)
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, controlMaxBodySize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
