package dlx

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/conn-castle/shimbin/internal/messages"
)

var (
	osChmod      = os.Chmod
	osRename     = os.Rename
	osStat       = os.Stat
	osCreateTemp = os.CreateTemp
	httpClient   = &http.Client{Timeout: 30 * time.Second}
	dlxSleep     = time.Sleep
)

const (
	defaultMaxDownloadBytes = int64(100 * 1024 * 1024) // 100 MiB
	downloadRetryCount      = 1
	downloadRetryBackoff    = 250 * time.Millisecond
)

// downloadToFile fetches url into dest, retrying once on transient network
// errors and 5xx responses. The response size is capped; an over-limit body
// fails the download rather than truncating it.
func downloadToFile(sys System, url string, dest *os.File) error {
	maxBytes := maxDownloadBytes(sys)
	for attempt := 0; attempt <= downloadRetryCount; attempt++ {
		resp, err := httpClient.Get(url)
		if err != nil {
			if shouldRetryDownload(attempt, err, 0) {
				dlxSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.DlxDownloadFailedFmt, url, err)
		}

		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetryDownload(attempt, nil, status) {
				dlxSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.DlxDownloadStatusFmt, url, statusText)
		}

		if err := dest.Truncate(0); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.DlxTruncateTempFileFmt, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.DlxResetTempFileOffsetFmt, err)
		}

		n, copyErr := io.Copy(dest, io.LimitReader(resp.Body, maxBytes+1))
		_ = resp.Body.Close()
		if copyErr != nil {
			if shouldRetryDownload(attempt, copyErr, 0) {
				dlxSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.DlxDownloadFailedFmt, url, copyErr)
		}
		if n > maxBytes {
			return fmt.Errorf(messages.DlxDownloadTooLargeFmt, url, n, maxBytes)
		}
		return nil
	}
	return fmt.Errorf(messages.DlxDownloadFailedFmt, url, errors.New("retries exhausted"))
}

func shouldRetryDownload(attempt int, err error, statusCode int) bool {
	if attempt >= downloadRetryCount {
		return false
	}
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

func maxDownloadBytes(sys System) int64 {
	raw := strings.TrimSpace(sys.Getenv(EnvMaxDownloadBytes))
	if raw == "" {
		return defaultMaxDownloadBytes
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return defaultMaxDownloadBytes
	}
	return v
}

// fileChecksum computes the hex SHA-256 of the file at path.
func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf(messages.DlxOpenFileFmt, path, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf(messages.DlxHashFileFmt, path, err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// verifyChecksum compares the SHA-256 of path against expected.
func verifyChecksum(path string, expected string) error {
	actual, err := fileChecksum(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf(messages.DlxChecksumMismatchFmt, path, expected, actual)
	}
	return nil
}
