package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// ErrSkip marks a check that cannot run with the current suite
// configuration. Skipped checks do not fail a run.
var ErrSkip = errors.New("check skipped")

// Env is what a check gets to work with.
type Env struct {
	Client *snaptic.Client
	Suite  *Suite
}

// Check is a named probe against the configured host.
type Check struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// builtins is the registry of available checks.
var builtins = map[string]Check{
	"auth": {
		Name:        "auth",
		Description: "credentials are accepted by the host",
		Run:         checkAuth,
	},
	"user_profile": {
		Name:        "user_profile",
		Description: "profile endpoint returns a usable account",
		Run:         checkUserProfile,
	},
	"note_roundtrip": {
		Name:        "note_roundtrip",
		Description: "a note can be posted, fetched, edited and deleted",
		Run:         checkNoteRoundtrip,
	},
	"cursor_pagination": {
		Name:        "cursor_pagination",
		Description: "cursor -1 yields at most one page with sane metadata",
		Run:         checkCursorPagination,
	},
	"tags": {
		Name:        "tags",
		Description: "tag listing parses",
		Run:         checkTags,
	},
	"latency": {
		Name:        "latency",
		Description: "profile round trip stays under the threshold",
		Run:         checkLatency,
	},
	"image_roundtrip": {
		Name:        "image_roundtrip",
		Description: "an image can be attached to a note and fetched back",
		Run:         checkImageRoundtrip,
	},
}

// Lookup returns a built-in check by name.
func Lookup(name string) (Check, bool) {
	check, ok := builtins[name]
	return check, ok
}

func checkAuth(ctx context.Context, env *Env) error {
	return env.Client.Ping(ctx)
}

func checkUserProfile(ctx context.Context, env *Env) error {
	user, err := env.Client.User(ctx)
	if err != nil {
		return err
	}
	if user.ID == 0 {
		return fmt.Errorf("profile returned no user id")
	}
	if user.UserName == "" {
		return fmt.Errorf("profile returned no user name")
	}
	return nil
}

func checkNoteRoundtrip(ctx context.Context, env *Env) error {
	text := fmt.Sprintf("go-snaptic check note %d", time.Now().UnixNano())

	note, err := env.Client.PostNote(ctx, text)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	// Best effort cleanup even when a later step fails.
	defer env.Client.DeleteNote(context.WithoutCancel(ctx), note.ID)

	if note.Text != text {
		return fmt.Errorf("posted text came back as %q", note.Text)
	}

	edited, err := env.Client.EditNote(ctx, note.ID, text+" (edited)")
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	if edited.Text != text+" (edited)" {
		return fmt.Errorf("edited text came back as %q", edited.Text)
	}

	if err := env.Client.DeleteNote(ctx, note.ID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func checkCursorPagination(ctx context.Context, env *Env) error {
	page, err := env.Client.NotesAt(ctx, -1)
	if err != nil {
		return err
	}
	if len(page.Notes) > 20 {
		return fmt.Errorf("cursor -1 returned %d notes, expected at most 20", len(page.Notes))
	}
	if page.Count < len(page.Notes) {
		return fmt.Errorf("cursor count %d is below page size %d", page.Count, len(page.Notes))
	}
	return nil
}

func checkTags(ctx context.Context, env *Env) error {
	// An empty tag list is valid; only transport or parse failures count.
	_, err := env.Client.Tags(ctx)
	return err
}

func checkLatency(ctx context.Context, env *Env) error {
	start := time.Now()
	if err := env.Client.Ping(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start)

	threshold := env.Suite.LatencyThresholdMs
	if threshold <= 0 {
		threshold = 2000
	}
	if elapsed.Milliseconds() > threshold {
		return fmt.Errorf("round trip took %dms, threshold %dms", elapsed.Milliseconds(), threshold)
	}
	return nil
}

func checkImageRoundtrip(ctx context.Context, env *Env) error {
	if env.Suite.ImageFile == "" {
		return fmt.Errorf("%w: no image_file configured in suite", ErrSkip)
	}

	text := fmt.Sprintf("go-snaptic image check %d", time.Now().UnixNano())
	note, err := env.Client.PostNote(ctx, text)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer env.Client.DeleteNote(context.WithoutCancel(ctx), note.ID)

	if err := env.Client.AttachImageFile(ctx, note.ID, env.Suite.ImageFile); err != nil {
		return fmt.Errorf("attach: %w", err)
	}

	fetched, err := env.Client.NotesAt(ctx, -1)
	if err != nil {
		return fmt.Errorf("refetch: %w", err)
	}
	for _, n := range fetched.Notes {
		if n.ID != note.ID {
			continue
		}
		if !n.HasMedia() {
			return fmt.Errorf("note %d has no media after attach", note.ID)
		}
		if _, err := env.Client.Image(ctx, n.Media[0].ID); err != nil {
			return fmt.Errorf("download: %w", err)
		}
		return nil
	}
	return fmt.Errorf("note %d missing from newest page after attach", note.ID)
}
