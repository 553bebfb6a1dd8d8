package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitatrack/models"
	"vitatrack/store"
	"vitatrack/utils"
)

// SyncOutcome is the terminal state of one sync attempt. None of them are
// errors to the caller: the app keeps working on local state regardless.
type SyncOutcome string

const (
	SyncNotConfigured SyncOutcome = "not_configured"
	SyncUnreachable   SyncOutcome = "unreachable"
	SyncNoChange      SyncOutcome = "no_change"
	SyncUpdated       SyncOutcome = "updated"
	// SyncFailed marks a local-state problem (store error, unknown user),
	// as opposed to the gym server being out of reach.
	SyncFailed SyncOutcome = "failed"
)

const (
	gymProbeTimeout  = 3 * time.Second
	gymStatusTimeout = 5 * time.Second
)

// SyncService reconciles a user's access-control fields against the gym
// server when one is configured. Remote data is authoritative for the block
// state only; points, history and everything else stay local.
type SyncService struct {
	users    store.Collection[models.User]
	settings *SettingsService
	alerts   *AlertBus
	client   *http.Client
	log      *zap.Logger
}

func NewSyncService(s *store.Store, settings *SettingsService, alerts *AlertBus, log *zap.Logger) *SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncService{
		users:    store.NewCollection[models.User](s),
		settings: settings,
		alerts:   alerts,
		client:   &http.Client{}, // per-request deadlines via context
		log:      log,
	}
}

type remoteBlockStatus struct {
	AccessBlocked bool   `json:"accessBlocked"`
	BlockedAt     string `json:"blockedAt"`
	BlockedBy     string `json:"blockedBy"`
	BlockedReason string `json:"blockedReason"`
}

// SyncStudent runs one reconciliation attempt for the given username.
func (s *SyncService) SyncStudent(ctx context.Context, username string) (SyncOutcome, error) {
	base := strings.TrimRight(s.settings.GymServerURL(), "/")
	if base == "" {
		utils.GymSyncs.WithLabelValues(string(SyncNotConfigured)).Inc()
		return SyncNotConfigured, nil
	}

	if err := s.Probe(ctx, base); err != nil {
		s.log.Debug("gym_unreachable", zap.String("base", base), zap.Error(err))
		utils.GymSyncs.WithLabelValues(string(SyncUnreachable)).Inc()
		return SyncUnreachable, nil
	}

	status, err := s.fetchStatus(ctx, base, username)
	if err != nil {
		s.log.Warn("gym_status_fetch_failed", zap.String("username", username), zap.Error(err))
		utils.GymSyncs.WithLabelValues(string(SyncUnreachable)).Inc()
		return SyncUnreachable, nil
	}

	user, err := s.users.First("username = ?", username)
	if err != nil {
		utils.GymSyncs.WithLabelValues(string(SyncFailed)).Inc()
		return SyncFailed, err
	}
	if user == nil {
		utils.GymSyncs.WithLabelValues(string(SyncFailed)).Inc()
		return SyncFailed, fmt.Errorf("no local user %q", username)
	}

	unchanged := user.AccessBlocked == status.AccessBlocked &&
		user.BlockedReason == status.BlockedReason &&
		user.BlockedBy == status.BlockedBy
	if unchanged && user.LastGymSyncAt != nil {
		utils.GymSyncs.WithLabelValues(string(SyncNoChange)).Inc()
		return SyncNoChange, nil
	}

	flipped := user.AccessBlocked != status.AccessBlocked

	// Field-level merge: only the access-control fields come from remote.
	user.AccessBlocked = status.AccessBlocked
	user.BlockedReason = status.BlockedReason
	user.BlockedBy = status.BlockedBy
	user.BlockedAt = parseRemoteTime(status.BlockedAt)
	now := time.Now().UTC()
	user.LastGymSyncAt = &now

	if _, err := s.users.Put(user); err != nil {
		utils.GymSyncs.WithLabelValues(string(SyncFailed)).Inc()
		return SyncFailed, err
	}

	if flipped {
		if user.AccessBlocked {
			s.alerts.Emit(user.ID, "access_blocked", status.BlockedReason)
		} else {
			s.alerts.Emit(user.ID, "access_restored", "")
		}
	}

	utils.GymSyncs.WithLabelValues(string(SyncUpdated)).Inc()
	return SyncUpdated, nil
}

// Probe checks the gym server health endpoint with a short deadline.
func (s *SyncService) Probe(ctx context.Context, base string) error {
	ctx, cancel := context.WithTimeout(ctx, gymProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gym server unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gym server health status %d", resp.StatusCode)
	}
	return nil
}

func (s *SyncService) fetchStatus(ctx context.Context, base, username string) (*remoteBlockStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, gymStatusTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/api/students/%s/status", base, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch block status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read block status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gym server status %d: %s", resp.StatusCode, string(body))
	}

	var status remoteBlockStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decode block status: %w", err)
	}
	return &status, nil
}

// FetchRemoteProfile pulls the gym server's full profile view for a student.
// Read-only; nothing from it is merged into local state.
func (s *SyncService) FetchRemoteProfile(ctx context.Context, username string) (map[string]any, error) {
	base := strings.TrimRight(s.settings.GymServerURL(), "/")
	if base == "" {
		return nil, errors.New("no gym server configured")
	}
	ctx, cancel := context.WithTimeout(ctx, gymStatusTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/api/students/%s", base, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gym server status %d: %s", resp.StatusCode, string(body))
	}
	var profile map[string]any
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode remote profile: %w", err)
	}
	return profile, nil
}

// TestConnection probes the configured gym server and returns the error
// verbatim; this is the one path where the user asked to see what failed.
func (s *SyncService) TestConnection(ctx context.Context) error {
	base := strings.TrimRight(s.settings.GymServerURL(), "/")
	if base == "" {
		return errors.New("no gym server configured")
	}
	return s.Probe(ctx, base)
}

func parseRemoteTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
