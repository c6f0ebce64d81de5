package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/localhealth/pkg/identity"
)

func credentialsOptions(description string) []mcp.ToolOption {
	return withSession(
		mcp.WithDescription(description),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("Password, at least 6 characters"),
		),
	)
}

// SignInTool returns a tool definition for signing in.
func (r *Registry) SignInTool() mcp.Tool {
	return mcp.NewTool("sign_in", credentialsOptions("Sign in with email and password; the session keeps the token")...)
}

// HandleSignIn signs a session in.
func (r *Registry) HandleSignIn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "sign_in")
	sess := r.session(req)

	if err := sess.BeginAuth(); err != nil {
		return ErrorResponse(identity.MsgLoginPending), nil
	}
	defer sess.EndAuth()

	res := r.deps.Accounts.Login(ctx, mcp.ParseString(req, "email", ""), mcp.ParseString(req, "password", ""))
	if res.Failed {
		return ErrorResponse(res.Message), nil
	}
	sess.SetToken(res.Token)
	logger.Info("user signed in", "uid", res.User.UID)
	return jsonResponse(logger, res), nil
}

// SignUpTool returns a tool definition for registration.
func (r *Registry) SignUpTool() mcp.Tool {
	return mcp.NewTool("sign_up", credentialsOptions("Create an account; sign in afterwards with sign_in")...)
}

// HandleSignUp registers an account.
func (r *Registry) HandleSignUp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "sign_up")
	sess := r.session(req)

	if err := sess.BeginAuth(); err != nil {
		return ErrorResponse(identity.MsgRegisterPending), nil
	}
	defer sess.EndAuth()

	res := r.deps.Accounts.Register(ctx, mcp.ParseString(req, "email", ""), mcp.ParseString(req, "password", ""))
	if res.Failed {
		return ErrorResponse(res.Message), nil
	}
	logger.Info("account registered", "uid", res.User.UID)
	return jsonResponse(logger, res), nil
}

// SignOutTool returns a tool definition for signing out.
func (r *Registry) SignOutTool() mcp.Tool {
	return mcp.NewTool("sign_out", withSession(
		mcp.WithDescription("Sign the session out"),
		mcp.WithString("token",
			mcp.Description("Session token; defaults to the token stored in the session"),
		),
	)...)
}

// HandleSignOut signs a session out.
func (r *Registry) HandleSignOut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "sign_out")
	sess := r.session(req)

	if err := sess.BeginAuth(); err != nil {
		return ErrorResponse(identity.MsgLogoutFailed), nil
	}
	defer sess.EndAuth()

	token := mcp.ParseString(req, "token", sess.Token())
	res := r.deps.Accounts.Logout(ctx, token)
	if res.Failed {
		return ErrorResponse(res.Message), nil
	}
	sess.SetToken("")
	return jsonResponse(logger, res), nil
}

// AuthStatusTool returns a tool definition for the auth status.
func (r *Registry) AuthStatusTool() mcp.Tool {
	return mcp.NewTool("auth_status", withSession(
		mcp.WithDescription("Show which user the session is signed in as"),
		mcp.WithString("token",
			mcp.Description("Session token; defaults to the token stored in the session"),
		),
	)...)
}

// HandleAuthStatus reports the signed-in user.
func (r *Registry) HandleAuthStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "auth_status")
	sess := r.session(req)

	res := r.deps.Accounts.Status(mcp.ParseString(req, "token", sess.Token()))
	if res.Failed {
		return ErrorResponse(res.Message), nil
	}
	return jsonResponse(logger, res), nil
}
