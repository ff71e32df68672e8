package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/user/metropolis/db"
	"github.com/user/metropolis/deps"
	"github.com/user/metropolis/mpv"
	"github.com/user/metropolis/output"
	"github.com/user/metropolis/session"
	"github.com/user/metropolis/transport"
	"github.com/user/metropolis/tui"
	"github.com/user/metropolis/tui/forms"
)

var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "metropolis",
	Short: "Live video clip triggering for performances",
	Long: `metropolis is a live-performance video tool: load clips into a 6x6
grid, trigger them instantly, and navigate marked cue points, all driven from
the keyboard. Playback runs through mpv, with an optional second mpv window
mirroring output to an external display.

Features:
  - 6x6 clip grids organized into tabs
  - Persistent play intent: switch clips without re-pressing play
  - Cue points marked live and jumped to during playback
  - Sessions saved to SQLite and restored on launch`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("metropolis version %s\n", Version)
	},
}

var (
	runOutputFlag bool
	runFreshFlag  bool
)

var runCmd = &cobra.Command{
	Use:   "run [media-dir]",
	Short: "Start a performance session",
	Long: `Start a performance session. Launches mpv, restores the saved
session if one exists, and opens the performance interface. The optional
media-dir argument sets the directory the file browser opens in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaDir := ""
		if len(args) > 0 {
			mediaDir = args[0]
		}
		return runSession(mediaDir, runOutputFlag, runFreshFlag)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that mpv is installed and available on PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		errs := deps.CheckAll()
		if len(errs) == 0 {
			fmt.Println("✓ mpv: OK")
			fmt.Println()
			fmt.Println("All dependencies are installed!")
			return
		}
		for _, err := range errs {
			fmt.Printf("✗ %v\n", err)
		}
		os.Exit(1)
	},
}

// runSession wires the whole stack: database, mpv process(es), transport,
// and the TUI, then offers to save on exit.
func runSession(mediaDir string, withOutput, fresh bool) error {
	if err := deps.CheckMpv(); err != nil {
		return err
	}

	if mediaDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			mediaDir = home
		}
		// A dismissed prompt keeps the home-directory default.
		if err := forms.NewMediaDirForm(&mediaDir).Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}

	store, err := db.Open()
	if err != nil {
		return fmt.Errorf("opening session database: %w", err)
	}
	defer store.Close()

	sess, err := restoreOrNewSession(store, fresh)
	if err != nil {
		return err
	}

	// Main player.
	process, err := mpv.Launch(mpv.DefaultSocketPath)
	if err != nil {
		return fmt.Errorf("launching mpv: %w", err)
	}
	defer killProcess(process)

	client := mpv.NewClient(mpv.DefaultSocketPath)
	if err := connectWithRetry(client); err != nil {
		return fmt.Errorf("connecting to mpv: %w", err)
	}
	defer client.Close()

	// Optional output mirror on a second mpv window.
	var player transport.Player = client
	outputOn := false
	if withOutput {
		outProcess, err := mpv.LaunchOutput(mpv.DefaultOutputSocketPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: output window unavailable: %v\n", err)
		} else {
			defer killProcess(outProcess)
			outClient := mpv.NewClient(mpv.DefaultOutputSocketPath)
			if err := connectWithRetry(outClient); err != nil {
				fmt.Fprintf(os.Stderr, "warning: output window unavailable: %v\n", err)
			} else {
				defer outClient.Close()
				player = output.NewTee(client, output.NewMirror(outClient))
				outputOn = true
			}
		}
	}

	rec := transport.New(player, sess.Rate())

	model := tui.NewModel(client, rec, sess, store, mediaDir)
	model.SetOutputOn(outputOn)
	if err := tui.Run(model); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}

	return saveOnExit(store, model.Session())
}

// restoreOrNewSession loads the saved session when one exists and the user
// wants it back, otherwise starts fresh.
func restoreOrNewSession(store *sql.DB, fresh bool) (*session.Session, error) {
	if fresh {
		return session.New(), nil
	}

	snap, found, err := db.Load(store)
	if err != nil {
		return nil, fmt.Errorf("loading saved session: %w", err)
	}
	if !found {
		return session.New(), nil
	}

	resume := true
	if err := forms.NewResumeSessionForm(&resume).Run(); err != nil {
		// Dismissing the prompt starts fresh without touching the saved
		// session.
		if errors.Is(err, huh.ErrUserAborted) {
			return session.New(), nil
		}
		return nil, err
	}
	if !resume {
		return session.New(), nil
	}
	return session.Restore(snap), nil
}

// connectWithRetry polls the mpv socket until it accepts a connection. mpv
// creates the socket shortly after start; give it up to five seconds.
func connectWithRetry(client *mpv.Client) error {
	var err error
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if err = client.Connect(); err == nil {
			return nil
		}
	}
	return err
}

// killProcess terminates a launched mpv process, ignoring errors from one
// that already exited.
func killProcess(process *exec.Cmd) {
	if process != nil && process.Process != nil {
		_ = process.Process.Kill()
	}
}

// saveOnExit persists the session when it has unsaved changes and the user
// does not discard them.
func saveOnExit(store *sql.DB, sess *session.Session) error {
	if !sess.Dirty() {
		return nil
	}

	discard := false
	if err := forms.NewConfirmDiscardForm(&discard).Run(); err != nil {
		// Dismissing the prompt keeps the changes: fall through to save.
		if !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}
	if discard {
		return nil
	}

	if err := db.Save(store, sess.Snapshot()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Println("Session saved.")
	return nil
}

func init() {
	runCmd.Flags().BoolVar(&runOutputFlag, "output", false, "mirror playback to a second mpv window for an external display")
	runCmd.Flags().BoolVar(&runFreshFlag, "fresh", false, "start a new session even if a saved one exists")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
