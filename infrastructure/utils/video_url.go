package utils

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"ytcollector/domain/model"
)

const shortLinkHost = "youtu.be"

// ExtractVideoID returns the video ID of a watch, shorts or youtu.be URL.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", &model.InvalidInputError{Input: rawURL, Reason: err.Error()}
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}
	if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok {
		if id, _, _ := strings.Cut(rest, "/"); id != "" {
			return id, nil
		}
	}
	if strings.EqualFold(u.Hostname(), shortLinkHost) {
		if id := strings.TrimPrefix(u.Path, "/"); id != "" {
			return id, nil
		}
	}
	return "", &model.InvalidInputError{Input: rawURL, Reason: "video ID not found"}
}

// ReadURLList reads one URL per line. Blank lines and lines starting with #
// are skipped.
func ReadURLList(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// ReadURLFile is ReadURLList over the file at path.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadURLList(f)
}
