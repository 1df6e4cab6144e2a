package catalog

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	domainCatalog "github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

//go:embed defaults/*.json
var defaults embed.FS

// LoadDefault loads the catalog bundled with the binary
func LoadDefault(ctx context.Context) (*domainCatalog.Catalog, error) {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Embedded billing catalog is missing").
			Mark(ierr.ErrInternal)
	}
	return LoadFS(ctx, sub)
}

// LoadDir loads the catalog documents found in dir
func LoadDir(ctx context.Context, dir string) (*domainCatalog.Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, ierr.NewErrorf("catalog directory %s is not readable", dir).
			WithHint("Set catalog.dir to a directory holding the catalog documents").
			WithReportableDetails(map[string]any{
				"dir": dir,
			}).
			Mark(ierr.ErrConfiguration)
	}
	return LoadFS(ctx, os.DirFS(dir))
}

// LoadFS reads every catalog document at the root of fsys concurrently,
// then validates the result into a snapshot.
func LoadFS(ctx context.Context, fsys fs.FS) (*domainCatalog.Catalog, error) {
	files, err := locate(fsys)
	if err != nil {
		return nil, err
	}

	var data domainCatalog.Data
	// the first failure is returned as is so its hints survive
	p := pool.New().WithErrors().WithContext(ctx).WithFirstError()
	for doc, file := range files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			body, err := fs.ReadFile(fsys, file)
			if err != nil {
				return ierr.WithError(err).
					WithHintf("Catalog document %s could not be read", file).
					Mark(ierr.ErrConfiguration)
			}
			// each goroutine owns exactly one field of data
			switch doc {
			case DocumentProducts:
				return decode(file, body, &data.Products)
			case DocumentPlans:
				return decode(file, body, &data.Plans)
			case DocumentPrices:
				if formatOf(file) == FormatCSV {
					lists, err := decodePriceCSV(file, body)
					data.PriceLists = lists
					return err
				}
				return decode(file, body, &data.PriceLists)
			case DocumentEvents:
				return decode(file, body, &data.Events)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return domainCatalog.New(data)
}

// locate maps every document to the single file holding it
func locate(fsys fs.FS) (map[Document]string, error) {
	out := make(map[Document]string, len(documents))
	for _, d := range documents {
		var found []string
		for _, f := range d.formats {
			for _, ext := range extensions(f) {
				name := string(d.name) + ext
				if _, err := fs.Stat(fsys, name); err == nil {
					found = append(found, name)
				}
			}
		}
		switch {
		case len(found) > 1:
			return nil, ierr.NewErrorf("catalog document %s is defined more than once: %v", d.name, found).
				WithHint("Keep exactly one file per catalog document").
				WithReportableDetails(map[string]any{
					"document": d.name,
					"files":    found,
				}).
				Mark(ierr.ErrConfiguration)
		case len(found) == 0 && d.required:
			return nil, ierr.NewErrorf("catalog document %s is missing", d.name).
				WithHintf("Provide %s.json or %s.yaml", d.name, d.name).
				WithReportableDetails(map[string]any{
					"document": d.name,
				}).
				Mark(ierr.ErrConfiguration)
		case len(found) == 1:
			out[d.name] = found[0]
		}
	}
	return out, nil
}

// Dump writes every document of c into dir using format
func Dump(c *domainCatalog.Catalog, dir string, format Format) error {
	if format != FormatJSON && format != FormatYAML {
		return ierr.NewErrorf("unsupported dump format %q", format).
			WithHint("Catalogs can be dumped as json or yaml").
			Mark(ierr.ErrValidation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create %s", dir).
			Mark(ierr.ErrInternal)
	}

	docs := documentsOf(c)
	for _, name := range lo.Keys(docs) {
		file := filepath.Join(dir, string(name)+extensions(format)[0])
		f, err := os.Create(file)
		if err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to create %s", file).
				Mark(ierr.ErrInternal)
		}
		err = Encode(f, format, docs[name])
		if cerr := f.Close(); err == nil && cerr != nil {
			err = ierr.WithError(cerr).WithHintf("Failed to write %s", file).Mark(ierr.ErrInternal)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedValues[T any](m map[string]T) []T {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) T { return m[k] })
}
