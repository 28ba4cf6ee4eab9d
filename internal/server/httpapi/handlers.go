package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	msgRegistered      = "User registered successfully"
	msgLoggedIn        = "Login successful"
	msgEmailTaken      = "Email already registered"
	msgBadCredentials  = "Invalid email or password"
	msgTaskCreated     = "Task created successfully"
	msgTaskUpdated     = "Task updated successfully"
	msgTaskDeleted     = "Task deleted successfully"
	msgTaskNotFound    = "Task not found"
	msgAPIVersion      = "TaskManager API v1.0"
	msgHealthy         = "Server and database are healthy"
	msgDatabaseFailure = "Database connection failed"
)

type taskData struct {
	Task *models.Task `json:"task"`
}

type tasksData struct {
	Tasks []*models.Task `json:"tasks"`
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, users UserService, tasks TaskService, store Pinger) {
	e.GET("/health", health(store))
	e.GET("/api", apiInfo())

	a := e.Group("/api/auth")
	a.POST("/register", register(users))
	a.POST("/login", login(users))

	t := e.Group("/api/tasks", RequireAuth(users))
	t.GET("", listTasks(tasks))
	t.POST("", createTask(tasks))
	t.GET("/:id", getTask(tasks))
	t.PUT("/:id", updateTask(tasks))
	t.DELETE("/:id", deleteTask(tasks))
}

func badRequest(err error) *echo.HTTPError {
	var v violations
	if errors.As(err, &v) {
		return echo.NewHTTPError(http.StatusBadRequest, v.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
}

func health(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, msgDatabaseFailure).SetInternal(err)
		}
		return c.JSON(http.StatusOK, envelope{Status: "ok", Message: msgHealthy})
	}
}

func apiInfo() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": msgAPIVersion})
	}
}

func register(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(err)
		}
		if err := req.validateRegister(); err != nil {
			return badRequest(err)
		}

		sess, err := users.Register(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrorAlreadyExists):
				return echo.NewHTTPError(http.StatusConflict, msgEmailTaken)
			case errors.Is(err, common.ErrorValidation):
				return echo.NewHTTPError(http.StatusBadRequest, msgPasswordTooLong)
			}
			return err
		}

		return success(c, http.StatusCreated, msgRegistered, sess)
	}
}

func login(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(err)
		}
		if err := req.validateLogin(); err != nil {
			return badRequest(err)
		}

		sess, err := users.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
			}
			return err
		}

		return success(c, http.StatusOK, msgLoggedIn, sess)
	}
}

// taskID returns the path id, or a 404 for anything that cannot name a task.
func taskID(c echo.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, msgTaskNotFound)
	}
	return id.String(), nil
}

// taskError maps store misses to the same 404 whether the task is missing or
// belongs to someone else.
func taskError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, common.ErrorValidation):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	return err
}

func listTasks(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, err := identity(c)
		if err != nil {
			return err
		}

		list, err := tasks.List(c.Request().Context(), who.ID)
		if err != nil {
			return err
		}
		if list == nil {
			list = []*models.Task{}
		}

		return success(c, http.StatusOK, "", tasksData{Tasks: list})
	}
}

func getTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, err := identity(c)
		if err != nil {
			return err
		}
		id, err := taskID(c)
		if err != nil {
			return err
		}

		task, err := tasks.Get(c.Request().Context(), id, who.ID)
		if err != nil {
			return taskError(err)
		}

		return success(c, http.StatusOK, "", taskData{Task: task})
	}
}

func createTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, err := identity(c)
		if err != nil {
			return err
		}

		var req createTaskRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(err)
		}
		if err := req.validate(); err != nil {
			return badRequest(err)
		}

		task, err := tasks.Create(c.Request().Context(), who.ID, req.Title, req.Description)
		if err != nil {
			return taskError(err)
		}

		return success(c, http.StatusCreated, msgTaskCreated, taskData{Task: task})
	}
}

func updateTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, err := identity(c)
		if err != nil {
			return err
		}
		id, err := taskID(c)
		if err != nil {
			return err
		}

		// body only: binding path params would drop "id" into the map
		var req updateTaskRequest
		if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
			return badRequest(err)
		}
		patch, err := req.patch()
		if err != nil {
			return badRequest(err)
		}

		task, err := tasks.Update(c.Request().Context(), id, who.ID, patch)
		if err != nil {
			return taskError(err)
		}

		return success(c, http.StatusOK, msgTaskUpdated, taskData{Task: task})
	}
}

func deleteTask(tasks TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, err := identity(c)
		if err != nil {
			return err
		}
		id, err := taskID(c)
		if err != nil {
			return err
		}

		if _, err := tasks.Delete(c.Request().Context(), id, who.ID); err != nil {
			return taskError(err)
		}

		return success(c, http.StatusOK, msgTaskDeleted, nil)
	}
}
