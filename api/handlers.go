package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store DataAccess, logger *log.Logger) {
	e.GET("/api/lists", getLists(store, logger))
	e.POST("/api/lists", postList(store, logger))
	e.GET("/api/lists/:id", getList(store, logger))
	e.DELETE("/api/lists/:id", deleteList(store, logger))
	e.POST("/api/lists/:id/items", postItem(store, logger))
	e.DELETE("/api/lists/:id/items/:item_id", deleteItem(store, logger))
	e.PATCH("/api/lists/:id/items/checked_state", patchCheckedState(store, logger))
	e.GET("/api/dummy", getDummy())
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getLists(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newListsRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		fetchStart := time.Now()
		summaries, fetchErr := store.ListLists(ctx)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			logger.WithError(fetchErr).Error("listing todo lists failed")
			err = c.String(http.StatusInternalServerError, "failed to list todo lists")
			return err
		}
		metrics.SetListsReturned(len(summaries))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, summaries)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func postList(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req newListRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		id, err := store.CreateList(c.Request().Context(), req.Name)
		if err != nil {
			logger.WithError(err).WithField("name", req.Name).Error("creating todo list failed")
			return c.String(http.StatusInternalServerError, "failed to create todo list")
		}
		return c.JSON(http.StatusCreated, newListResponse{ID: id, Name: req.Name})
	}
}

func getList(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		list, err := store.GetList(c.Request().Context(), id)
		if err != nil {
			if isNotFound(err) {
				return c.String(http.StatusNotFound, "list not found")
			}
			logger.WithError(err).WithField("list_id", id).Error("fetching todo list failed")
			return c.String(http.StatusInternalServerError, "failed to get list")
		}
		return c.JSON(http.StatusOK, list)
	}
}

func deleteList(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		removed, err := store.DeleteList(c.Request().Context(), id)
		if err != nil {
			logger.WithError(err).WithField("list_id", id).Error("deleting todo list failed")
			return c.String(http.StatusInternalServerError, "failed to delete list")
		}
		if !removed {
			return c.String(http.StatusNotFound, "list not found")
		}
		return c.JSON(http.StatusOK, true)
	}
}

func postItem(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		var req newItemRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		list, err := store.CreateItem(c.Request().Context(), id, req.Label)
		if err != nil {
			if isNotFound(err) {
				return c.String(http.StatusNotFound, "list not found")
			}
			logger.WithError(err).WithField("list_id", id).Error("creating item failed")
			return c.String(http.StatusInternalServerError, "failed to create item")
		}
		return c.JSON(http.StatusCreated, list)
	}
}

func deleteItem(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		itemID := c.Param("item_id")
		list, err := store.DeleteItem(c.Request().Context(), id, itemID)
		if err != nil {
			if isNotFound(err) {
				return c.String(http.StatusNotFound, "list or item not found")
			}
			logger.WithError(err).WithFields(log.Fields{"list_id": id, "item_id": itemID}).Error("deleting item failed")
			return c.String(http.StatusInternalServerError, "failed to delete item")
		}
		return c.JSON(http.StatusOK, list)
	}
}

func patchCheckedState(store DataAccess, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		var req checkedStateRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		list, err := store.SetCheckedState(c.Request().Context(), id, req.ItemID, req.CheckedState)
		if err != nil {
			if isNotFound(err) {
				return c.String(http.StatusNotFound, "list or item not found")
			}
			logger.WithError(err).WithFields(log.Fields{"list_id": id, "item_id": req.ItemID}).Error("updating checked state failed")
			return c.String(http.StatusInternalServerError, "failed to update checked state")
		}
		return c.JSON(http.StatusOK, list)
	}
}

func getDummy() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, dummyResponse{ID: primitive.NewObjectID().Hex(), When: time.Now()})
	}
}

func decodeBody(c echo.Context, v interface{}) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	return sonic.ConfigStd.NewDecoder(lr).Decode(v)
}

func isNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
