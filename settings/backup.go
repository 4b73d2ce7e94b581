package settings

import (
	"context"
	"time"

	"github.com/horockey/rxprefs"
)

const BackupNamespace = "backup_settings"

const DefaultRetentionCount int32 = 30

var (
	DailyBackupEnabledKey       = rxprefs.BoolKey("daily_backup_enabled", true)
	TransactionBackupEnabledKey = rxprefs.BoolKey("transaction_backup_enabled", true)
	AppCloseBackupEnabledKey    = rxprefs.BoolKey("app_close_backup_enabled", true)
	GoogleDriveEnabledKey       = rxprefs.BoolKey("google_drive_backup_enabled", false)
	GoogleDriveAccountKey       = rxprefs.NullableStringKey("google_drive_account")
	RetentionCountKey           = rxprefs.Int32Key("backup_retention_count", DefaultRetentionCount)
	LastBackupTimeKey           = rxprefs.Int64Key("last_backup_time", 0)
	LastDailyBackupDateKey      = rxprefs.StringKey("last_daily_backup_date", "")
	LastGoogleDriveSyncKey      = rxprefs.Int64Key("last_google_drive_sync", 0)
	AppClosedProperlyKey        = rxprefs.BoolKey("app_closed_properly", true)
	LastSafeBackupPathKey       = rxprefs.NullableStringKey("last_safe_backup_path")
)

// Layout of last_daily_backup_date.
const DailyBackupDateLayout = time.DateOnly

// BackupSettings remembers settings and execution history of backups.
// It does not perform backups.
type BackupSettings struct {
	ns *rxprefs.Namespace
}

func NewBackupSettings(ns *rxprefs.Namespace) *BackupSettings {
	return &BackupSettings{ns: ns}
}

func (bs *BackupSettings) Namespace() *rxprefs.Namespace {
	return bs.ns
}

func (bs *BackupSettings) DailyBackupEnabled(ctx context.Context) <-chan bool {
	return rxprefs.Observe(ctx, bs.ns, DailyBackupEnabledKey)
}

func (bs *BackupSettings) SetDailyBackupEnabled(ctx context.Context, enabled bool) error {
	return rxprefs.Set(ctx, bs.ns, DailyBackupEnabledKey, enabled)
}

func (bs *BackupSettings) TransactionBackupEnabled(ctx context.Context) <-chan bool {
	return rxprefs.Observe(ctx, bs.ns, TransactionBackupEnabledKey)
}

func (bs *BackupSettings) SetTransactionBackupEnabled(ctx context.Context, enabled bool) error {
	return rxprefs.Set(ctx, bs.ns, TransactionBackupEnabledKey, enabled)
}

func (bs *BackupSettings) AppCloseBackupEnabled(ctx context.Context) <-chan bool {
	return rxprefs.Observe(ctx, bs.ns, AppCloseBackupEnabledKey)
}

func (bs *BackupSettings) SetAppCloseBackupEnabled(ctx context.Context, enabled bool) error {
	return rxprefs.Set(ctx, bs.ns, AppCloseBackupEnabledKey, enabled)
}

func (bs *BackupSettings) GoogleDriveEnabled(ctx context.Context) <-chan bool {
	return rxprefs.Observe(ctx, bs.ns, GoogleDriveEnabledKey)
}

func (bs *BackupSettings) SetGoogleDriveEnabled(ctx context.Context, enabled bool) error {
	return rxprefs.Set(ctx, bs.ns, GoogleDriveEnabledKey, enabled)
}

// GoogleDriveAccount emits nil while no account is configured.
func (bs *BackupSettings) GoogleDriveAccount(ctx context.Context) <-chan *string {
	return rxprefs.Observe(ctx, bs.ns, GoogleDriveAccountKey)
}

// SetGoogleDriveAccount removes the account when email is nil.
func (bs *BackupSettings) SetGoogleDriveAccount(ctx context.Context, email *string) error {
	return rxprefs.SetOrRemove(ctx, bs.ns, GoogleDriveAccountKey, email)
}

func (bs *BackupSettings) RetentionCount(ctx context.Context) <-chan int32 {
	return rxprefs.Observe(ctx, bs.ns, RetentionCountKey)
}

func (bs *BackupSettings) SetRetentionCount(ctx context.Context, count int32) error {
	return rxprefs.Set(ctx, bs.ns, RetentionCountKey, count)
}

func (bs *BackupSettings) LastBackupTime(ctx context.Context) <-chan time.Time {
	return mapStream(ctx, rxprefs.Observe(ctx, bs.ns, LastBackupTimeKey), fromUnixMilli)
}

func (bs *BackupSettings) SetLastBackupTime(ctx context.Context, ts time.Time) error {
	return rxprefs.Set(ctx, bs.ns, LastBackupTimeKey, toUnixMilli(ts))
}

func (bs *BackupSettings) LastDailyBackupDate(ctx context.Context) <-chan string {
	return rxprefs.Observe(ctx, bs.ns, LastDailyBackupDateKey)
}

// SetLastDailyBackupDate stores the calendar date of day in its own location.
func (bs *BackupSettings) SetLastDailyBackupDate(ctx context.Context, day time.Time) error {
	return rxprefs.Set(ctx, bs.ns, LastDailyBackupDateKey, day.Format(DailyBackupDateLayout))
}

func (bs *BackupSettings) LastGoogleDriveSync(ctx context.Context) <-chan time.Time {
	return mapStream(ctx, rxprefs.Observe(ctx, bs.ns, LastGoogleDriveSyncKey), fromUnixMilli)
}

func (bs *BackupSettings) SetLastGoogleDriveSync(ctx context.Context, ts time.Time) error {
	return rxprefs.Set(ctx, bs.ns, LastGoogleDriveSyncKey, toUnixMilli(ts))
}

func (bs *BackupSettings) AppClosedProperly(ctx context.Context) <-chan bool {
	return rxprefs.Observe(ctx, bs.ns, AppClosedProperlyKey)
}

func (bs *BackupSettings) SetAppClosedProperly(ctx context.Context, properly bool) error {
	return rxprefs.Set(ctx, bs.ns, AppClosedProperlyKey, properly)
}

func (bs *BackupSettings) LastSafeBackupPath(ctx context.Context) <-chan *string {
	return rxprefs.Observe(ctx, bs.ns, LastSafeBackupPathKey)
}

func (bs *BackupSettings) SetLastSafeBackupPath(ctx context.Context, path *string) error {
	return rxprefs.SetOrRemove(ctx, bs.ns, LastSafeBackupPathKey, path)
}

// BackupConfig is what the backup runner reads before executing.
type BackupConfig struct {
	DailyBackupEnabled       bool
	TransactionBackupEnabled bool
	AppCloseBackupEnabled    bool
	GoogleDriveEnabled       bool
	GoogleDriveAccount       *string
	RetentionCount           int32
}

// Config returns the current backup configuration in one read.
func (bs *BackupSettings) Config() BackupConfig {
	return BackupConfig{
		DailyBackupEnabled:       rxprefs.Get(bs.ns, DailyBackupEnabledKey),
		TransactionBackupEnabled: rxprefs.Get(bs.ns, TransactionBackupEnabledKey),
		AppCloseBackupEnabled:    rxprefs.Get(bs.ns, AppCloseBackupEnabledKey),
		GoogleDriveEnabled:       rxprefs.Get(bs.ns, GoogleDriveEnabledKey),
		GoogleDriveAccount:       rxprefs.Get(bs.ns, GoogleDriveAccountKey),
		RetentionCount:           rxprefs.Get(bs.ns, RetentionCountKey),
	}
}
