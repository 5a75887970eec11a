package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/shimbin/internal/config"
	"github.com/conn-castle/shimbin/internal/dlx"
	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/terminal"
)

// configSystem backs dlx environment lookups with file-configured values:
// a set environment variable always wins over the config file.
type configSystem struct {
	cfg config.Config
}

func (s configSystem) UserCacheDir() (string, error) {
	return os.UserCacheDir()
}

func (s configSystem) Getenv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	switch key {
	case dlx.EnvCacheDir:
		return s.cfg.CacheDir
	case dlx.EnvNoNetwork:
		if s.cfg.NoNetwork {
			return "1"
		}
	case dlx.EnvCacheTTL:
		if s.cfg.CacheTTLHours > 0 {
			return s.cfg.CacheTTL().String()
		}
	case dlx.EnvMaxDownloadBytes:
		if s.cfg.MaxDownloadBytes > 0 {
			return strconv.FormatInt(s.cfg.MaxDownloadBytes, 10)
		}
	}
	return ""
}

func loadCache(progress io.Writer) (*dlx.Cache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return dlx.New(configSystem{cfg: cfg}, progress), nil
}

func newDlxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.DlxUse,
		Short: messages.DlxShort,
	}
	cmd.AddCommand(newDlxRunCmd(), newDlxListCmd(), newDlxCleanCmd())
	return cmd
}

func newDlxRunCmd() *cobra.Command {
	var (
		url      string
		checksum string
		name     string
		cwd      string
		force    bool
		ttl      time.Duration
		envPairs []string
	)
	cmd := &cobra.Command{
		Use:   messages.DlxRunUse,
		Short: messages.DlxRunShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			progress := io.Discard
			if terminal.IsInteractive() {
				progress = cmd.ErrOrStderr()
			}
			cache, err := loadCache(progress)
			if err != nil {
				return err
			}

			spawn := &dlx.SpawnOptions{Dir: cwd}
			if len(envPairs) > 0 {
				spawn.Env = append(os.Environ(), envPairs...)
			}
			// An unset flag leaves CacheTTL zero so the cache falls back
			// to SHIMBIN_CACHE_TTL and the configured default.
			opts := dlx.Options{
				Name:     name,
				URL:      url,
				Checksum: checksum,
				CacheTTL: ttl,
				Force:    force,
				Spawn:    spawn,
			}

			outcome, err := cache.Binary(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			result, err := outcome.Run.Wait()
			_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
			return err
		},
	}
	cmd.Flags().StringVar(&url, "url", "", messages.FlagURLDesc)
	cmd.Flags().StringVar(&checksum, "checksum", "", messages.FlagChecksumDesc)
	cmd.Flags().StringVar(&name, "name", "", messages.FlagNameDesc)
	cmd.Flags().StringVar(&cwd, "cwd", "", messages.FlagCwdDesc)
	cmd.Flags().BoolVar(&force, "force", false, messages.FlagForceDesc)
	cmd.Flags().DurationVar(&ttl, "cache-ttl", 0, messages.FlagTTLDesc)
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, messages.FlagEnvDesc)
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newDlxListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.DlxListUse,
		Short: messages.DlxListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := loadCache(io.Discard)
			if err != nil {
				return err
			}
			entries, err := cache.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, messages.DlxListEmpty)
				return nil
			}
			header := fmt.Sprintf(messages.DlxListHeaderFmt, "NAME", "AGE", "PLATFORM", "URL")
			_, _ = fmt.Fprint(out, color.New(color.Bold).Sprint(header))
			for _, entry := range entries {
				_, _ = fmt.Fprintf(out, messages.DlxListRowFmt,
					entry.Name, formatAge(entry.Age), entry.Platform+"/"+entry.Arch, entry.URL)
			}
			return nil
		},
	}
}

func newDlxCleanCmd() *cobra.Command {
	var maxAge time.Duration
	cmd := &cobra.Command{
		Use:   messages.DlxCleanUse,
		Short: messages.DlxCleanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := loadCache(io.Discard)
			if err != nil {
				return err
			}
			removed, err := cache.Clean(maxAge)
			if err != nil {
				return err
			}
			message := fmt.Sprintf(messages.DlxCleanRemovedFmt, removed)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), color.GreenString(message))
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", dlx.DefaultTTL, messages.FlagMaxAgeDesc)
	return cmd
}

// formatAge renders an entry age the way container tooling does: minutes
// under an hour, hours under two days, days beyond that.
func formatAge(age time.Duration) string {
	switch {
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%dh", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}
