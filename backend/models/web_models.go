package models

import (
	"time"

	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/bot"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/domain/settings"
)

// UserSession represents a user session for web authentication
type UserSession struct {
	ID          string    `json:"-"`
	UserID      string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      *string   `json:"avatar"`
	IsDeveloper bool      `json:"isDeveloper"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Actor identifies the session user in audit entries.
func (s *UserSession) Actor() *activity.Actor {
	if s == nil {
		return nil
	}
	return &activity.Actor{UserID: s.UserID, Username: s.Username}
}

// BotUser converts the session to the dashboard header identity.
func (s *UserSession) BotUser() *bot.User {
	if s == nil {
		return nil
	}
	display := s.DisplayName
	if display == "" {
		display = s.Username
	}
	return &bot.User{
		ID:          s.UserID,
		Username:    s.Username,
		DisplayName: display,
		Avatar:      s.Avatar,
		IsDeveloper: s.IsDeveloper,
	}
}

// CommandCreateRequest represents a request to create a new command
type CommandCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=32"`
	Description string `json:"description" validate:"max=100"`
	Category    string `json:"category" validate:"required,max=50"`
	Enabled     *bool  `json:"enabled"`
}

func (r CommandCreateRequest) ToNewCommand() commands.NewCommand {
	return commands.NewCommand{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Enabled:     r.Enabled,
	}
}

// CommandUpdateRequest represents a partial command update
type CommandUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=32"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

func (r CommandUpdateRequest) ToPatch() commands.Patch {
	return commands.Patch{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Enabled:     r.Enabled,
	}
}

// CommandUsageRequest reports one execution of a command by the bot
type CommandUsageRequest struct {
	ServerID   string `json:"serverId" validate:"max=32"`
	ServerName string `json:"serverName" validate:"max=100"`
	UserID     string `json:"userId" validate:"max=32"`
	Username   string `json:"username" validate:"max=64"`
}

func (r CommandUsageRequest) ToUsage() commands.Usage {
	return commands.Usage{
		ServerID:   r.ServerID,
		ServerName: r.ServerName,
		UserID:     r.UserID,
		Username:   r.Username,
	}
}

// SettingsUpdateRequest represents a settings update; omitted fields keep their value
type SettingsUpdateRequest struct {
	Prefix            *string `json:"prefix,omitempty" validate:"omitempty,min=1,max=5"`
	Status            *string `json:"status,omitempty" validate:"omitempty,oneof=online idle dnd invisible"`
	Activity          *string `json:"activity,omitempty" validate:"omitempty,max=128"`
	ActivityType      *string `json:"activityType,omitempty" validate:"omitempty,oneof=playing watching listening competing"`
	AutoResponse      *bool   `json:"autoResponse,omitempty"`
	LoggingEnabled    *bool   `json:"loggingEnabled,omitempty"`
	ModerationEnabled *bool   `json:"moderationEnabled,omitempty"`
}

func (r SettingsUpdateRequest) ToPatch() settings.Patch {
	return settings.Patch{
		Prefix:            r.Prefix,
		Status:            r.Status,
		Activity:          r.Activity,
		ActivityType:      r.ActivityType,
		AutoResponse:      r.AutoResponse,
		LoggingEnabled:    r.LoggingEnabled,
		ModerationEnabled: r.ModerationEnabled,
	}
}

// BotTokenRequest carries a candidate bot credential
type BotTokenRequest struct {
	BotToken  string   `json:"botToken" validate:"required,min=50"`
	Languages []string `json:"languages,omitempty" validate:"omitempty,max=8,dive,max=20"`
}

// LanguagesRequest replaces the language badge list
type LanguagesRequest struct {
	Languages []string `json:"languages" validate:"required,max=8,dive,max=20"`
}

// LanguagesResponse is the language badge list
type LanguagesResponse struct {
	Languages []bot.Language `json:"languages"`
}

// DeleteResponse reports whether a delete removed anything
type DeleteResponse struct {
	Success bool `json:"success"`
}
