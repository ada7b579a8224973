package ncbi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seqclade/vut/internal/model"
)

// DefaultBaseURL is the NCBI E-utilities efetch endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

// defaultTimeout bounds one download. Viral reference GBFFs are small
// (tens of kilobytes to a few megabytes), but eutils can be slow under
// load.
const defaultTimeout = 5 * time.Minute

// Client fetches records from NCBI efetch.
type Client struct {
	// BaseURL is the efetch endpoint; overridable for tests.
	BaseURL string

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client
}

// NewClient creates a Client against the public NCBI endpoint.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// FetchGBFF downloads the GenBank flat file (with parts) for a
// nucleotide accession into destPath. The download goes through a
// temporary file in the destination directory and is renamed into place
// only after it passes a sanity check, so destPath either does not exist
// or is a complete GBFF.
func (c *Client) FetchGBFF(ctx context.Context, acc, destPath string) error {
	if err := model.ValidateAccession(acc); err != nil {
		return model.WrapCLIError(model.ExitFetchError, "refusing to fetch", err)
	}

	query := url.Values{
		"db":      {"nuccore"},
		"id":      {acc},
		"rettype": {"gbwithparts"},
		"retmode": {"text"},
	}
	reqURL := c.BaseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.WrapCLIError(model.ExitFetchError,
			fmt.Sprintf("failed to build efetch request for %s", acc), err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return model.WrapCLIError(model.ExitFetchError,
			fmt.Sprintf("efetch request for %s failed", acc), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.NewCLIError(model.ExitFetchError,
			fmt.Sprintf("efetch request for %s returned %s", acc, resp.Status))
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".tmp*")
	if err != nil {
		return model.WrapCLIError(model.ExitFetchError,
			fmt.Sprintf("failed to create temp file for %s", destPath), err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name()) // no-op after a successful rename
	}()

	// efetch answers errors (bad accession, throttling) with 200 and an
	// HTML or error body, so check the payload actually is a GBFF.
	br := bufio.NewReader(resp.Body)
	head, err := br.Peek(len("LOCUS"))
	if err != nil || !strings.HasPrefix(string(head), "LOCUS") {
		return model.NewCLIError(model.ExitFetchError,
			fmt.Sprintf("efetch response for %s does not look like a GenBank flat file", acc))
	}

	if _, err := io.Copy(tmp, br); err != nil {
		return model.WrapCLIError(model.ExitFetchError,
			fmt.Sprintf("failed to download %s", acc), err)
	}
	if err := tmp.Close(); err != nil {
		return model.WrapCLIError(model.ExitFetchError,
			fmt.Sprintf("failed to write %s", tmp.Name()), err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return model.WrapCLIError(model.ExitFetchError,
			fmt.Sprintf("failed to move download into place at %s", destPath), err)
	}
	return nil
}

// FetchGBFFIfMissing downloads the GBFF only when destPath does not
// already exist. Returns whether a download happened. This is the
// idempotence contract of the fetch step: a second run touches nothing.
func (c *Client) FetchGBFFIfMissing(ctx context.Context, acc, destPath string) (bool, error) {
	if _, err := os.Stat(destPath); err == nil {
		return false, nil
	}
	if err := c.FetchGBFF(ctx, acc, destPath); err != nil {
		return false, err
	}
	return true, nil
}
