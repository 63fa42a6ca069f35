package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/utils"
	"github.com/quantmind-br/gitdown/pkg/version"
)

// DefaultTimeout bounds a whole archive download
const DefaultTimeout = 10 * time.Minute

var _ domain.Downloader = (*Downloader)(nil)

// Downloader is the download-and-extract capability. It fetches a URL over
// HTTP and either unpacks the payload into the destination or stores it there
// as a single file.
type Downloader struct {
	httpClient *http.Client
	extractor  *Extractor
	fs         afero.Fs
	logger     *utils.Logger
}

// DownloaderOptions contains options for creating a Downloader
type DownloaderOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Fs         afero.Fs
	Logger     *utils.Logger
}

// NewDownloader creates a new Downloader
func NewDownloader(opts DownloaderOptions) *Downloader {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	client := opts.HTTPClient
	if client == nil {
		client = NewHTTPClient(opts.Timeout)
	}

	logger := opts.Logger.OrNop()

	return &Downloader{
		httpClient: client,
		extractor:  NewExtractor(ExtractorOptions{Fs: fs, Logger: logger}),
		fs:         fs,
		logger:     logger.WithComponent("download"),
	}
}

// NewHTTPClient returns a client with a redirect limit and the given timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

// Download fetches rawURL and materialises it under dest
func (d *Downloader) Download(ctx context.Context, rawURL, dest string, opts domain.DownloadOptions) error {
	if !utils.IsHTTPURL(rawURL) {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, rawURL)
	}

	d.logger.Debug().Str("url", utils.RedactURL(rawURL)).Bool("extract", opts.Extract).Msg("Downloading")

	resp, err := d.get(ctx, rawURL, opts.Headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !opts.Extract {
		name := opts.Filename
		if name == "" {
			name = filenameFor(resp)
		}
		return d.save(resp.Body, filepath.Join(dest, utils.SanitizeFilename(name)), opts.FileMode)
	}

	return d.extract(resp.Body, dest, opts)
}

// get issues one GET request. Non-2xx responses are closed and returned as
// a StatusError.
func (d *Downloader) get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, domain.NewStatusError(rawURL, resp.StatusCode)
	}
	return resp, nil
}

// extract spools the body to a temporary file, since zip needs random access
func (d *Downloader) extract(body io.Reader, dest string, opts domain.DownloadOptions) error {
	tmp, err := afero.TempFile(d.fs, "", "gitdown-archive-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		_ = d.fs.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	d.logger.Debug().Int64("bytes", size).Int("strip", opts.Strip).Msg("Extracting archive")

	return d.extractor.Extract(tmp, size, dest, ExtractOptions{
		Strip:    opts.Strip,
		FileMode: opts.FileMode,
	})
}

func (d *Downloader) save(body io.Reader, target string, mode os.FileMode) error {
	if mode == 0 {
		mode = 0644
	}
	if err := d.fs.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	file, err := d.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return file.Close()
}

// filenameFor prefers Content-Disposition and falls back to the last element
// of the final (post-redirect) URL path.
func filenameFor(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return path.Base(params["filename"])
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		if base := path.Base(resp.Request.URL.Path); base != "/" && base != "." {
			return strings.TrimSpace(base)
		}
	}
	return "download"
}
