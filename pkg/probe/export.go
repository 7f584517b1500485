package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/EchoTools/probetools/internal/logging"
	"github.com/EchoTools/probetools/pkg/cubemap"
	"github.com/EchoTools/probetools/pkg/dds"
	"github.com/EchoTools/probetools/pkg/jobs"
	"github.com/EchoTools/probetools/pkg/rgbm"
)

// Options controls export.
type Options struct {
	OutputDir string
	Flip      bool
	DumpFaces bool

	// Workers and QueueSize size the job queue used by ExportAll.
	Workers   int
	QueueSize int
}

// DefaultOptions returns options writing flipped DDS files to dir.
func DefaultOptions(dir string) Options {
	return Options{
		OutputDir: dir,
		Flip:      true,
		Workers:   1,
	}
}

// Export encodes p as an RGBM cubemap and writes <OutputDir>/<name>.dds.
func Export(p *Probe, opts Options) (Entry, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return Entry{}, fmt.Errorf("create output dir: %w", err)
	}

	start := time.Now()
	enc, err := rgbm.EncodeCubemap(p.Source)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: encode: %w", p.Name, err)
	}

	img, err := cubemap.BuildImage(enc)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	file := p.Name + ".dds"
	if err := img.SaveFile(filepath.Join(opts.OutputDir, file), dds.WithFlip(opts.Flip)); err != nil {
		return Entry{}, err
	}

	if opts.DumpFaces {
		paths, err := cubemap.DumpFaces(opts.OutputDir, p.Name, img)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: dump faces: %w", p.Name, err)
		}
		logging.Debug("dumped faces", "probe", p.Name, "files", len(paths))
	}

	logging.Info("exported probe", "probe", p.Name, "size", enc.Size(), "mips", enc.NumMips(), "elapsed", time.Since(start))
	return newEntry(p.Info, file, enc.Size(), enc.NumMips()), nil
}

// ErrDuplicateName is returned by ExportAll when two probes would write the
// same DDS file.
var ErrDuplicateName = errors.New("probe: duplicate probe name")

// ExportAll exports every probe on a job queue and writes the probe
// manifest to the output directory. Entries are sorted by name. Probes that
// fail are left out of the manifest and their errors are joined. Nothing is
// exported if two probes share a name.
func ExportAll(ctx context.Context, probes []*Probe, opts Options) (*Manifest, error) {
	if err := checkNames(probes); err != nil {
		return nil, err
	}

	workers := max(opts.Workers, 1)
	q, err := jobs.NewQueue(workers, max(opts.QueueSize, 0))
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries []Entry
	)

	var submitErr error
	for _, p := range probes {
		err := q.Submit(ctx, jobs.Job{
			Name: p.Name,
			Run: func(ctx context.Context) error {
				entry, err := Export(p, opts)
				if err != nil {
					return err
				}
				mu.Lock()
				entries = append(entries, entry)
				mu.Unlock()
				return nil
			},
		})
		if err != nil {
			submitErr = fmt.Errorf("submit %s: %w", p.Name, err)
			break
		}
	}

	jobErr := q.Shutdown()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	m := &Manifest{Probes: entries}

	if len(entries) > 0 {
		if err := WriteManifest(filepath.Join(opts.OutputDir, ManifestName), m); err != nil {
			return m, errors.Join(submitErr, jobErr, err)
		}
	}

	return m, errors.Join(submitErr, jobErr)
}

// checkNames rejects probe sets whose names collide. Names are compared
// case-insensitively since output file systems may fold case.
func checkNames(probes []*Probe) error {
	seen := make(map[string]string, len(probes))
	var errs []error
	for _, p := range probes {
		key := strings.ToLower(p.Name)
		if first, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("%w: %q and %q", ErrDuplicateName, first, p.Name))
			continue
		}
		seen[key] = p.Name
	}
	return errors.Join(errs...)
}
