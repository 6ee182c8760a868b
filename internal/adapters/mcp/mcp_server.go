// Package mcp provides the MCP (Model Context Protocol) server implementation.
// It drives a headless session controller with the same events the terminal
// UI sends.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/ports"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server *server.MCPServer
	ctrl   ports.SessionController
	loop   ports.Dispatcher
	logger *log.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance. Every tool call hops onto
// the loop before touching ctrl.
func NewServer(ctrl ports.SessionController, loop ports.Dispatcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		ctrl:   ctrl,
		loop:   loop,
		logger: logger,
	}

	s.server = server.NewMCPServer(
		"somatic",
		Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get the current screen, mood, play state, intensity, elapsed time and afterglow phase"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_moods",
			mcp.WithDescription("List the moods a session can be started with"),
		),
		s.handleListMoods,
	)

	moodIDs := make([]string, 0, len(domain.Moods()))
	for _, m := range domain.Moods() {
		moodIDs = append(moodIDs, string(m.ID))
	}
	s.server.AddTool(
		mcp.NewTool(
			"select_mood",
			mcp.WithDescription("Start a session for a mood. Only valid on the check-in screen"),
			mcp.WithString(
				"mood",
				mcp.Required(),
				mcp.Description("The body state to work with"),
				mcp.Enum(moodIDs...),
			),
		),
		s.handleSelectMood,
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_play",
			mcp.WithDescription("Play or pause the running session"),
		),
		s.handleTogglePlay,
	)

	s.server.AddTool(
		mcp.NewTool(
			"set_intensity",
			mcp.WithDescription("Set the visualization intensity. Values outside 0-100 are clamped"),
			mcp.WithNumber(
				"intensity",
				mcp.Required(),
				mcp.Description("Intensity percent from 0 to 100"),
			),
		),
		s.handleSetIntensity,
	)

	s.server.AddTool(
		mcp.NewTool(
			"skip",
			mcp.WithDescription("End the session now and move to the afterglow"),
		),
		s.handleSkip,
	)

	s.server.AddTool(
		mcp.NewTool(
			"dismiss",
			mcp.WithDescription("Dismiss the afterglow and return to check-in"),
		),
		s.handleDismiss,
	)
}

// Start begins serving MCP requests via stdio. It blocks until ctx ends or
// stdin closes.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve handles MCP requests over the given streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	serveCtx, cancel := s.ctx, s.cancel
	s.mu.Unlock()
	defer cancel()

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}))

	s.logger.Info("mcp server listening on stdio", "version", Version)
	err := stdio.Listen(serveCtx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

type moodView struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Feeling     string `json:"feeling"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Primary     string `json:"primary_color"`
	Secondary   string `json:"secondary_color"`
	Variant     string `json:"variant"`
	Icon        string `json:"icon"`
}

func newMoodView(m domain.MoodStyle) moodView {
	return moodView{
		ID:          string(m.ID),
		Label:       m.Label,
		Feeling:     m.Feeling,
		Name:        m.Name,
		Description: m.Description,
		Primary:     m.Primary,
		Secondary:   m.Secondary,
		Variant:     string(m.Variant),
		Icon:        m.Icon,
	}
}

type stateView struct {
	Screen           string    `json:"screen"`
	Mood             *moodView `json:"mood,omitempty"`
	SessionID        string    `json:"session_id,omitempty"`
	IsPlaying        bool      `json:"is_playing"`
	Intensity        *int      `json:"intensity,omitempty"`
	Drive            float64   `json:"drive"`
	ElapsedSeconds   int       `json:"elapsed_seconds"`
	DurationSeconds  int       `json:"duration_seconds"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Completed        bool      `json:"completed"`
	AfterglowPhase   string    `json:"afterglow_phase,omitempty"`
	SessionsComplete int       `json:"sessions_complete"`
}

func newStateView(snap domain.Snapshot) stateView {
	v := stateView{
		Screen:           string(snap.Screen),
		Drive:            snap.Drive(),
		DurationSeconds:  snap.DurationSeconds,
		AfterglowPhase:   string(snap.Phase),
		SessionsComplete: snap.SessionsComplete,
	}
	if p := snap.Player; p != nil {
		mood := newMoodView(p.Mood)
		intensity := p.Intensity
		v.Mood = &mood
		v.SessionID = p.ID
		v.IsPlaying = p.IsPlaying
		v.Intensity = &intensity
		v.ElapsedSeconds = p.ElapsedSeconds
		v.RemainingSeconds = int(p.Remaining(snap.DurationSeconds).Seconds())
		v.Completed = p.Completed
	}
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// apply runs an event on the loop and returns the resulting state. A refused
// transition is reported as a tool error, not a protocol error.
func (s *Server) apply(ctx context.Context, tool string, event func() error) (*mcp.CallToolResult, error) {
	var (
		eventErr error
		snap     domain.Snapshot
	)
	err := s.loop.Do(ctx, func() {
		eventErr = event()
		snap = s.ctrl.Snapshot()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch %s: %w", tool, err)
	}
	if eventErr != nil {
		s.logger.Debug("tool refused", "tool", tool, "err", eventErr)
		return mcp.NewToolResultError(eventErr.Error()), nil
	}
	return jsonResult(newStateView(snap))
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, "get_state", func() error { return nil })
}

// handleListMoods handles the list_moods tool.
func (s *Server) handleListMoods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	moods := domain.Moods()
	views := make([]moodView, len(moods))
	for i, m := range moods {
		views[i] = newMoodView(m)
	}
	return jsonResult(map[string]any{
		"moods":       views,
		"total_count": len(views),
	})
}

// handleSelectMood handles the select_mood tool.
func (s *Server) handleSelectMood(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mood, err := domain.ParseMood(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.apply(ctx, "select_mood", func() error { return s.ctrl.SelectMood(mood) })
}

// handleTogglePlay handles the toggle_play tool.
func (s *Server) handleTogglePlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, "toggle_play", s.ctrl.TogglePlay)
}

// handleSetIntensity handles the set_intensity tool.
func (s *Server) handleSetIntensity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := request.RequireFloat("intensity")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if math.IsNaN(value) {
		return mcp.NewToolResultError("intensity must be a number"), nil
	}
	// Clamp before converting; out-of-range floats do not convert to int.
	value = math.Max(domain.MinIntensity, math.Min(domain.MaxIntensity, value))
	return s.apply(ctx, "set_intensity", func() error { return s.ctrl.SetIntensity(int(value)) })
}

// handleSkip handles the skip tool.
func (s *Server) handleSkip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, "skip", s.ctrl.Complete)
}

// handleDismiss handles the dismiss tool.
func (s *Server) handleDismiss(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, "dismiss", s.ctrl.Dismiss)
}
