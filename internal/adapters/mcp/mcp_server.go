// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	control       ports.TimerControl
	stateProvider ports.StateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(control ports.TimerControl, stateProvider ports.StateProvider, version string) *Server {
	s := &Server{
		control:       control,
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"streak",
		version,
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
			mcp.WithDescription("Get the timer state: active preset, phase, remaining time and today's progress"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Get session statistics including streaks and daily, monthly and yearly series"),
		),
		s.handleGetStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_achievements",
			mcp.WithDescription("List achievements with their unlock state and collected quotes"),
		),
		s.handleGetAchievements,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_timer",
			mcp.WithDescription("Start or resume the countdown of the active preset"),
		),
		s.handleStartTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"pause_timer",
			mcp.WithDescription("Pause the running countdown"),
		),
		s.handlePauseTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"reset_timer",
			mcp.WithDescription("Reset the countdown to the full duration of the active preset"),
		),
		s.handleResetTimer,
	)

	switchTool := mcp.NewTool(
		"switch_preset",
		mcp.WithDescription("Activate a preset; the timer becomes idle"),
		mcp.WithString(
			"preset_id",
			mcp.Required(),
			mcp.Description("The preset to activate"),
		),
	)
	s.server.AddTool(switchTool, s.handleSwitchPreset)

	durationTool := mcp.NewTool(
		"set_preset_duration",
		mcp.WithDescription("Change the length of a preset"),
		mcp.WithString(
			"preset_id",
			mcp.Required(),
			mcp.Description("The preset to change"),
		),
		mcp.WithNumber(
			"duration_minutes",
			mcp.Required(),
			mcp.Description("New duration in minutes"),
		),
	)
	s.server.AddTool(durationTool, s.handleSetPresetDuration)

	s.server.AddTool(
		mcp.NewTool(
			"reset_statistics",
			mcp.WithDescription("Clear all statistics and achievements"),
		),
		s.handleResetStatistics,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func timerData(t domain.TimerState) map[string]interface{} {
	data := map[string]interface{}{
		"preset_id":         t.ActivePreset.ID,
		"preset_name":       t.ActivePreset.Label(),
		"phase":             string(t.Phase()),
		"remaining_seconds": t.RemainingSeconds,
		"duration_seconds":  t.ActivePreset.DurationSeconds,
		"progress":          t.Progress(),
		"countable":         t.ActivePreset.Countable,
	}
	if t.EndsAt != nil {
		data["ends_at"] = t.EndsAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return data
}

func bucketData(entries []domain.StatBucketEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"bucket":           e.BucketKey,
			"sessions":         e.SessionCount,
			"duration_seconds": e.TotalDurationSeconds,
		})
	}
	return out
}

func textResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// commandResult reports whether a command was accepted along with the new timer state.
func (s *Server) commandResult(accepted bool) (*mcp.CallToolResult, error) {
	return textResult(map[string]interface{}{
		"accepted": accepted,
		"timer":    timerData(s.control.TimerState()),
	})
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}

	presets := make([]map[string]interface{}, 0)
	for _, p := range s.control.Presets().All() {
		presets = append(presets, map[string]interface{}{
			"id":               p.ID,
			"name":             p.Label(),
			"duration_seconds": p.DurationSeconds,
			"countable":        p.Countable,
		})
	}

	return textResult(map[string]interface{}{
		"timer":   timerData(state.Timer),
		"presets": presets,
		"today": map[string]interface{}{
			"sessions":         state.Today.SessionCount,
			"duration_seconds": state.Today.TotalDurationSeconds,
		},
		"current_streak_days": state.Stats.CurrentStreakDays,
		"streak_active":       state.StreakActive,
	})
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	stats := state.Stats

	return textResult(map[string]interface{}{
		"sessions_completed":  stats.SessionsCompleted,
		"total_focus_seconds": stats.TotalFocusSeconds,
		"current_streak_days": stats.CurrentStreakDays,
		"longest_streak_days": stats.LongestStreakDays,
		"last_session_date":   stats.LastSessionDate,
		"streak_active":       state.StreakActive,
		"last_seven_days":     bucketData(state.Week),
		"daily":               bucketData(stats.Daily.Entries()),
		"monthly":             bucketData(stats.Monthly.Entries()),
		"yearly":              bucketData(stats.Yearly.Entries()),
	})
}

// handleGetAchievements handles the get_achievements tool.
func (s *Server) handleGetAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.control.Achievements()

	var list []map[string]interface{}
	for _, a := range domain.Catalog() {
		entry := map[string]interface{}{
			"id":          a.ID,
			"title":       a.Title,
			"description": a.Description,
			"unlocked":    false,
		}
		if at, ok := state.Unlocked[a.ID]; ok {
			entry["unlocked"] = true
			entry["unlocked_at"] = at.Format("2006-01-02T15:04:05Z07:00")
		}
		list = append(list, entry)
	}

	return textResult(map[string]interface{}{
		"achievements":   list,
		"unlocked_count": len(state.Unlocked),
		"quotes":         state.Quotes,
	})
}

// handleStartTimer handles the start_timer tool.
func (s *Server) handleStartTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wasRunning := s.control.TimerState().Running
	s.control.Start()
	return s.commandResult(!wasRunning)
}

// handlePauseTimer handles the pause_timer tool.
func (s *Server) handlePauseTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wasRunning := s.control.TimerState().Running
	s.control.Pause()
	return s.commandResult(wasRunning)
}

// handleResetTimer handles the reset_timer tool.
func (s *Server) handleResetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.control.Reset()
	return s.commandResult(true)
}

// handleSwitchPreset handles the switch_preset tool.
func (s *Server) handleSwitchPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("preset_id")
	if err != nil {
		return mcp.NewToolResultError("preset_id is required: " + err.Error()), nil
	}
	if !s.control.SwitchPreset(id) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown preset %q", id)), nil
	}
	return s.commandResult(true)
}

// handleSetPresetDuration handles the set_preset_duration tool.
func (s *Server) handleSetPresetDuration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("preset_id")
	if err != nil {
		return mcp.NewToolResultError("preset_id is required: " + err.Error()), nil
	}

	// JSON numbers arrive as float64; some clients send strings.
	minutes := request.GetFloat("duration_minutes", 0)
	if minutes <= 0 {
		if raw := request.GetString("duration_minutes", ""); raw != "" {
			if m, err := strconv.ParseFloat(raw, 64); err == nil {
				minutes = m
			}
		}
	}
	seconds := int(minutes * 60)
	if seconds <= 0 {
		return mcp.NewToolResultError("duration_minutes must be positive"), nil
	}

	if !s.control.UpdatePresetDuration(id, seconds) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown preset %q", id)), nil
	}
	return s.commandResult(true)
}

// handleResetStatistics handles the reset_statistics tool.
func (s *Server) handleResetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.control.ResetStatistics()
	return textResult(map[string]interface{}{
		"accepted":           true,
		"sessions_completed": s.control.Stats().SessionsCompleted,
	})
}
