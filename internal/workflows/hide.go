package workflows

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/internal/container"
	"github.com/pentimento/pentimento/internal/envelope"
	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/imaging"
	"github.com/pentimento/pentimento/internal/metadata"
)

// HideOptions configures the hide workflow.
type HideOptions struct {
	// CoverPath is the image that will carry the container.
	CoverPath string

	// RealPath is the sensitive file to hide.
	RealPath string

	// DecoyPath is the innocuous file surrendered under duress.
	DecoyPath string

	// RealPassword unlocks the real secret. Must differ from DecoyPassword.
	RealPassword string

	// DecoyPassword unlocks the decoy secret.
	DecoyPassword string

	// OutputPath is where the carrier image is written, always as PNG.
	OutputPath string

	// Compress applies LZMA compression to each secret before sealing.
	Compress bool

	// Label is an optional tag stored in the metadata record.
	Label string

	// Archive keeps a copy of the carrier image in the local archive,
	// retrievable later by container ID.
	Archive bool

	// DryRun seals and plans capacity without writing anything.
	DryRun bool

	// Random overrides the randomness source for salts, nonces, and the
	// container ID. If nil, crypto/rand is used.
	Random io.Reader
}

// HideResult contains the outcome of a hide operation.
type HideResult struct {
	// ContainerID identifies the new container. Empty for dry runs,
	// since nothing was persisted under it.
	ContainerID string

	// RequiredBytes is the serialized container size.
	RequiredBytes int

	// CapacityBytes is the number of bytes the cover image can hold.
	CapacityBytes int

	// OutputPath is the carrier image that was written.
	OutputPath string

	// Archived indicates a copy was kept in the local archive.
	Archived bool

	// DryRun indicates whether this was a dry-run (nothing written).
	DryRun bool
}

// Hide seals two secrets under two different passwords and embeds both in
// a cover image.
//
// Each secret is independently encrypted, so the carrier image alone never
// betrays that a second secret exists. The salts and nonces go into the
// metadata store keyed by a fresh container ID; without that record the
// container cannot be opened, which is what makes revoke work.
//
// Returns ErrEmptyPassword if either password is empty.
// Returns ErrPasswordsMatch if the two passwords are equal.
// Returns ErrImageNotFound or ErrInvalidImage if the cover cannot be read.
// Returns ErrFileNotFound or ErrEmptySecret if a secret file is unusable.
// Returns ErrCapacityExceeded, before any write, if the container does not fit.
func Hide(ctx context.Context, opts HideOptions) (*HideResult, error) {
	if opts.RealPassword == "" || opts.DecoyPassword == "" {
		return nil, perrors.ErrEmptyPassword
	}
	if opts.RealPassword == opts.DecoyPassword {
		return nil, perrors.ErrPasswordsMatch
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	buf, err := loadCoverImage(opts.CoverPath)
	if err != nil {
		return nil, err
	}

	realName, realData, err := readSecretFile(opts.RealPath)
	if err != nil {
		return nil, err
	}
	decoyName, decoyData, err := readSecretFile(opts.DecoyPath)
	if err != nil {
		return nil, err
	}

	config, _, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}
	params := config.Params()

	random := opts.Random
	if random == nil {
		random = rand.Reader
	}

	if opts.Compress {
		realData, err = compressSecret(realData)
		if err != nil {
			return nil, fmt.Errorf("compressing %s: %w", realName, err)
		}
		decoyData, err = compressSecret(decoyData)
		if err != nil {
			return nil, fmt.Errorf("compressing %s: %w", decoyName, err)
		}
	}

	realSealed, err := envelope.Seal(random, opts.RealPassword, realData, params)
	if err != nil {
		return nil, fmt.Errorf("sealing %s: %w", realName, err)
	}
	decoySealed, err := envelope.Seal(random, opts.DecoyPassword, decoyData, params)
	if err != nil {
		return nil, fmt.Errorf("sealing %s: %w", decoyName, err)
	}

	c := &container.Container{
		Real:  container.Part{Name: realName, Ciphertext: realSealed.Ciphertext},
		Decoy: container.Part{Name: decoyName, Ciphertext: decoySealed.Ciphertext},
	}

	if opts.DryRun {
		payload, err := c.Serialize()
		if err != nil {
			return nil, err
		}
		plan := container.PlanFor(buf.Width, buf.Height, len(payload))
		if !plan.Fits() {
			return nil, capacityError(plan)
		}
		return &HideResult{
			RequiredBytes: plan.RequiredBytes,
			CapacityBytes: plan.CapacityBytes,
			DryRun:        true,
		}, nil
	}

	c.ID, err = container.NewID(random)
	if err != nil {
		return nil, fmt.Errorf("generating container ID: %w", err)
	}

	plan, err := container.Embed(buf, c)
	if err != nil {
		if errors.Is(err, perrors.ErrCapacityExceeded) {
			return nil, capacityError(plan)
		}
		return nil, err
	}

	var carrier bytes.Buffer
	if err := imaging.Encode(&carrier, buf); err != nil {
		return nil, fmt.Errorf("encoding carrier image: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, carrier.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("writing carrier image: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			os.Remove(opts.OutputPath)
		}
	}()

	store, err := openMetadataStore(config, true)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rec := &metadata.Record{
		ContainerID:     c.ID.String(),
		RealSalt:        realSealed.Salt,
		RealNonce:       realSealed.Nonce,
		DecoySalt:       decoySealed.Salt,
		DecoyNonce:      decoySealed.Nonce,
		KDFTime:         params.Time,
		KDFMemoryKB:     params.MemoryKB,
		KDFThreads:      params.Threads,
		RealCompressed:  opts.Compress,
		DecoyCompressed: opts.Compress,
		Label:           opts.Label,
		CreatedAt:       time.Now().UTC(),
	}
	if err := store.Put(rec); err != nil {
		return nil, fmt.Errorf("saving container metadata: %w", err)
	}

	result := &HideResult{
		ContainerID:   c.ID.String(),
		RequiredBytes: plan.RequiredBytes,
		CapacityBytes: plan.CapacityBytes,
		OutputPath:    opts.OutputPath,
	}

	if opts.Archive {
		archiveStore, err := openArchiveStore(config)
		if err != nil {
			return nil, err
		}
		if _, err := archiveStore.Save(c.ID.String(), filepath.Base(opts.OutputPath), carrier.Bytes()); err != nil {
			return nil, fmt.Errorf("archiving carrier image: %w", err)
		}
		result.Archived = true
	}

	auditEntry := audit.LogWithUser("hide")
	auditEntry.ContainerID = c.ID.String()
	auditEntry.Image = opts.OutputPath
	auditEntry.Label = opts.Label
	auditEntry.RequiredBytes = plan.RequiredBytes
	audit.Log(auditEntry)

	cleanupNeeded = false

	return result, nil
}

// loadCoverImage reads and decodes the cover image into a pixel buffer.
func loadCoverImage(path string) (*container.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", perrors.ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("opening cover image: %w", err)
	}
	defer f.Close()

	buf, err := imaging.Decode(f)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// readSecretFile reads one secret and derives its stored name from the path.
func readSecretFile(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: %s", perrors.ErrFileNotFound, path)
		}
		return "", nil, fmt.Errorf("reading secret file: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: %s", perrors.ErrEmptySecret, path)
	}
	return filepath.Base(path), data, nil
}

// capacityError wraps ErrCapacityExceeded with the numbers the user needs
// to pick a bigger cover image.
func capacityError(plan container.Plan) error {
	return fmt.Errorf("%w: container needs %d bytes, cover image holds %d",
		perrors.ErrCapacityExceeded, plan.RequiredBytes, plan.CapacityBytes)
}
