package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	profileUC "github.com/cybertodo/backend/usecase/profile"
	todoUC "github.com/cybertodo/backend/usecase/todo"
)

// Tool argument structs. Operations are scoped by the explicit user_id
// argument rather than the account bound to the API key; per-user key
// enforcement is a known follow-up (see README), so the descriptions
// state the current behavior honestly.

type listTodosArgs struct {
	UserID   string `json:"user_id"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type getTodoArgs struct {
	UserID string `json:"user_id"`
	TodoID string `json:"todo_id"`
}

type createTodoArgs struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

type updateTodoArgs struct {
	UserID      string  `json:"user_id"`
	TodoID      string  `json:"todo_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

type deleteTodoArgs struct {
	UserID string `json:"user_id"`
	TodoID string `json:"todo_id"`
}

type getUserInfoArgs struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

func (s *Server) registerTools(todos *todoUC.UseCase, profiles *profileUC.UseCase) {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_todos",
		Description: "List the todos of the user identified by user_id, newest first, optionally filtered by status (pending, in_progress, completed) and priority (low, medium, high, critical).",
	}, func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[listTodosArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		if args.UserID == "" {
			return errorResult("user_id is required"), nil
		}
		result, err := todos.List(ctx, args.UserID, todoUC.ListFilter{
			Status:   args.Status,
			Priority: args.Priority,
			Limit:    args.Limit,
		})
		if err != nil {
			return errorResult(err.Error()), nil
		}
		s.logger.Debug("list_todos", zap.String("user_id", args.UserID), zap.Int("count", len(result)))
		return jsonResult(result)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_todo",
		Description: "Get a specific todo by ID. The todo must belong to the user identified by user_id.",
	}, func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[getTodoArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		if args.UserID == "" || args.TodoID == "" {
			return errorResult("user_id and todo_id are required"), nil
		}
		todo, err := todos.Get(ctx, args.UserID, args.TodoID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(todo)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_todo",
		Description: "Create a new todo owned by the user identified by user_id. Status starts as pending; priority defaults to medium; due_date is an optional ISO-8601 timestamp.",
	}, func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[createTodoArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		if args.UserID == "" {
			return errorResult("user_id is required"), nil
		}
		created, err := todos.Create(ctx, args.UserID, todoUC.CreateInput{
			Title:       args.Title,
			Description: args.Description,
			Priority:    args.Priority,
			DueDate:     args.DueDate,
		})
		if err != nil {
			return errorResult(err.Error()), nil
		}
		s.logger.Info("todo created via MCP", zap.String("todo_id", created.ID))
		return jsonResult(created)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_todo",
		Description: "Update fields of an existing todo. Only supplied fields change; an empty due_date string clears the due date.",
	}, func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[updateTodoArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		if args.UserID == "" || args.TodoID == "" {
			return errorResult("user_id and todo_id are required"), nil
		}
		updated, err := todos.Update(ctx, args.UserID, args.TodoID, todoUC.UpdateInput{
			Title:       args.Title,
			Description: args.Description,
			Status:      args.Status,
			Priority:    args.Priority,
			DueDate:     args.DueDate,
		})
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(updated)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo owned by the user identified by user_id.",
	}, func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[deleteTodoArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		if args.UserID == "" || args.TodoID == "" {
			return errorResult("user_id and todo_id are required"), nil
		}
		if err := todos.Delete(ctx, args.UserID, args.TodoID); err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(fmt.Sprintf("Todo %s deleted.", args.TodoID)), nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_user_info",
		Description: "Look up a user by user_id or username.",
	}, func(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[getUserInfoArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments
		switch {
		case args.UserID != "":
			user, err := profiles.GetByID(ctx, args.UserID)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			return jsonResult(user)
		case args.Username != "":
			user, err := profiles.GetByUsername(ctx, args.Username)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			return jsonResult(user)
		default:
			return errorResult("user_id or username is required"), nil
		}
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResultFor[any], error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: " + err.Error()), nil
	}
	return textResult(string(payload)), nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(message string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + message}},
		IsError: true,
	}
}
