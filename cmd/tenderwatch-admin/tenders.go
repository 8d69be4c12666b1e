package main

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

const (
	defaultImportBatch   = 500
	defaultImportTimeout = 5 * time.Minute
)

type importTendersOptions struct {
	File      string
	BatchSize int
	Timeout   time.Duration
}

// tenderLoader is satisfied by *data.TenderRepo.
type tenderLoader interface {
	UpsertBatch(ctx context.Context, reqs []*model.UpsertTenderRequest) (int, error)
}

func parseImportTendersFlags(args []string) (importTendersOptions, error) {
	fs := flag.NewFlagSet("import-tenders", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := importTendersOptions{}
	fs.StringVar(&opts.File, "file", "", "Path to a JSON array or JSON Lines file of tenders (- for stdin)")
	fs.IntVar(&opts.BatchSize, "batch", defaultImportBatch, "Tenders per transaction")
	fs.DurationVar(&opts.Timeout, "timeout", defaultImportTimeout, "Maximum duration of the import")

	if err := fs.Parse(args); err != nil {
		return importTendersOptions{}, err
	}
	if opts.File == "" {
		return importTendersOptions{}, errors.New("--file is required")
	}
	if opts.BatchSize <= 0 {
		return importTendersOptions{}, errors.New("--batch must be greater than zero")
	}
	if opts.Timeout <= 0 {
		return importTendersOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runImportTenders(cmdCtx *commandContext, args []string) error {
	opts, err := parseImportTendersFlags(args)
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if opts.File != "-" {
		f, openErr := os.Open(opts.File)
		if openErr != nil {
			return fmt.Errorf("open %s: %w", opts.File, openErr)
		}
		defer f.Close()
		src = f
	}

	tenders, err := readTenders(src)
	if err != nil {
		return err
	}
	if len(tenders) == 0 {
		cmdCtx.Logger.Info("no tenders to import", "file", opts.File)
		return nil
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		written, importErr := importTenders(ctx, data.NewTenderRepo(db), tenders, opts.BatchSize)
		if importErr != nil {
			return importErr
		}
		cmdCtx.Logger.Info("tenders imported", "read", len(tenders), "written", written)
		return nil
	})
}

// readTenders accepts either a JSON array or one JSON object per line.
func readTenders(r io.Reader) ([]*model.UpsertTenderRequest, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tenders: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()

	if first == '[' {
		var out []*model.UpsertTenderRequest
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode tender array: %w", err)
		}
		return out, nil
	}

	var out []*model.UpsertTenderRequest
	for {
		var t model.UpsertTenderRequest
		err := dec.Decode(&t)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode tender %d: %w", len(out)+1, err)
		}
		out = append(out, &t)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

// importTenders upserts in batches so one bad row only rolls back its own batch.
func importTenders(ctx context.Context, repo tenderLoader, tenders []*model.UpsertTenderRequest, batchSize int) (int, error) {
	written := 0
	for start := 0; start < len(tenders); start += batchSize {
		end := min(start+batchSize, len(tenders))
		n, err := repo.UpsertBatch(ctx, tenders[start:end])
		if err != nil {
			return written, fmt.Errorf("import tenders %d-%d: %w", start+1, end, err)
		}
		written += n
	}
	return written, nil
}
