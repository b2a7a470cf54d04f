package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

// AppVersion is stamped at build time with -ldflags "-X main.AppVersion=v1.2.3".
var AppVersion = "v0.0.0"

const releasesURL = "https://api.github.com/repos/opacedigital/ai-core/releases/latest"

type gitHubRelease struct {
	TagName string `json:"tag_name"`
}

// checkForUpdates warns when a newer release is published. Any failure is
// silent; the check must never delay or block startup.
func checkForUpdates(ctx context.Context, url, current string, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var release gitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	if outdated(current, release.TagName) {
		logger.Warn("You are running an outdated version",
			zap.String("current", current),
			zap.String("latest", release.TagName),
		)
	}
}

func outdated(current, latest string) bool {
	cur, err := version.NewVersion(current)
	if err != nil {
		return false
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return false
	}
	return cur.LessThan(lat)
}
