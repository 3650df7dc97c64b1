package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/internal/container"
	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/imaging"
)

// RevealOptions configures the reveal workflow.
type RevealOptions struct {
	// ImagePath is the carrier image to read. Mutually exclusive with
	// ContainerID.
	ImagePath string

	// ContainerID reads the carrier image from the local archive instead
	// of a path.
	ContainerID string

	// Password is tried against both secrets. Whichever it unlocks is
	// returned; the caller cannot tell whether the other arm failed.
	Password string

	// OutputPath overrides where the unlocked file is written. If empty,
	// the secret's stored name is used in the current directory. If it
	// names a directory, the stored name is placed inside it.
	OutputPath string

	// Stdout returns the plaintext in the result instead of writing a file.
	Stdout bool
}

// RevealResult contains the outcome of a reveal operation.
type RevealResult struct {
	// ContainerID is the identifier embedded in the carrier image.
	ContainerID string

	// Name is the stored name of the unlocked secret.
	Name string

	// Size is the plaintext size in bytes, after decompression.
	Size int

	// Role says which secret the password unlocked. Callers that print
	// output should not show this unless explicitly asked.
	Role container.Role

	// OutputPath is the file that was written. Empty in stdout mode.
	OutputPath string

	// Data is the plaintext. Only set in stdout mode.
	Data []byte
}

// Reveal extracts the container from a carrier image and unlocks whichever
// secret the supplied password opens.
//
// The password is tried against both secrets and the resolution never
// reports which arm failed. A revoked container fails before any
// decryption is attempted: without the record there are no salts or
// nonces to try.
//
// Returns ErrEmptyPassword if the password is empty.
// Returns ErrImageNotFound if the carrier image cannot be read.
// Returns ErrInvalidHeader or ErrTruncatedData if the image carries no container.
// Returns ErrMetadataNotFound if the container's record was revoked or the
// store is unreachable.
// Returns ErrInvalidPassword if the password unlocks neither secret.
func Reveal(ctx context.Context, opts RevealOptions) (*RevealResult, error) {
	if opts.Password == "" {
		return nil, perrors.ErrEmptyPassword
	}
	if (opts.ImagePath == "") == (opts.ContainerID == "") {
		return nil, fmt.Errorf("specify either an image path or a container ID")
	}

	config, _, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	buf, err := loadCarrier(config, opts)
	if err != nil {
		return nil, err
	}

	c, err := container.Extract(buf)
	if err != nil {
		return nil, err
	}

	if opts.ContainerID != "" && c.ID.String() != opts.ContainerID {
		return nil, fmt.Errorf("archived image carries container %s, not %s", c.ID, opts.ContainerID)
	}

	store, err := openMetadataStore(config, false)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rec, err := store.Get(c.ID.String())
	if err != nil {
		return nil, err
	}

	unlocked, err := container.Resolve(c, rec.KeyMaterial(), opts.Password)
	if err != nil {
		return nil, err
	}

	data := unlocked.Data
	compressed := (unlocked.Role == container.RoleReal && rec.RealCompressed) ||
		(unlocked.Role == container.RoleDecoy && rec.DecoyCompressed)
	if compressed {
		data, err = decompressSecret(data)
		if err != nil {
			return nil, fmt.Errorf("decompressing secret: %w", err)
		}
	}

	result := &RevealResult{
		ContainerID: c.ID.String(),
		Name:        unlocked.Name,
		Size:        len(data),
		Role:        unlocked.Role,
	}

	if opts.Stdout {
		result.Data = data
	} else {
		outPath, err := resolveOutputPath(opts.OutputPath, unlocked.Name)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(outPath, data, 0600); err != nil {
			return nil, fmt.Errorf("writing unlocked secret: %w", err)
		}
		result.OutputPath = outPath
	}

	// The audit entry deliberately omits the secret name and the role.
	auditEntry := audit.LogWithUser("reveal")
	auditEntry.ContainerID = c.ID.String()
	auditEntry.Image = opts.ImagePath
	audit.Log(auditEntry)

	return result, nil
}

// loadCarrier decodes the carrier image from a path or from the archive.
func loadCarrier(config *configs.UserConfig, opts RevealOptions) (*container.PixelBuffer, error) {
	if opts.ImagePath != "" {
		return loadCoverImage(opts.ImagePath)
	}

	if _, err := container.ParseID(opts.ContainerID); err != nil {
		return nil, fmt.Errorf("%w: %q", perrors.ErrInvalidContainerID, opts.ContainerID)
	}

	archiveStore, err := openArchiveStore(config)
	if err != nil {
		return nil, err
	}
	_, data, err := archiveStore.Load(opts.ContainerID)
	if err != nil {
		return nil, err
	}

	return imaging.Decode(bytes.NewReader(data))
}

// resolveOutputPath decides where the unlocked secret lands.
func resolveOutputPath(outputPath, name string) (string, error) {
	if outputPath == "" {
		return name, nil
	}
	info, err := os.Stat(outputPath)
	if err == nil && info.IsDir() {
		return filepath.Join(outputPath, name), nil
	}
	return outputPath, nil
}
