package usecase

import (
	"context"
	"fmt"
	"log"
)

// UpdateUsecase replaces the running binary with the latest released one.
type UpdateUsecase struct {
	fetcher        ReleaseFetcher
	applier        UpdateApplier
	assetName      string
	currentVersion string
}

func NewUpdateUsecase(fetcher ReleaseFetcher, applier UpdateApplier, assetName, currentVersion string) *UpdateUsecase {
	return &UpdateUsecase{
		fetcher:        fetcher,
		applier:        applier,
		assetName:      assetName,
		currentVersion: currentVersion,
	}
}

// SelfUpdate installs the latest release and returns its tag. updated is
// false when the running version already is the latest.
func (u *UpdateUsecase) SelfUpdate(ctx context.Context) (tag string, updated bool, err error) {
	release, err := u.fetcher.FetchLatest(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	if release.TagName == u.currentVersion {
		log.Println("[SelfUpdate] already at " + release.TagName)
		return release.TagName, false, nil
	}

	assetURL, ok := release.AssetURL(u.assetName)
	if !ok {
		return release.TagName, false, fmt.Errorf("release %s has no asset named %s", release.TagName, u.assetName)
	}

	log.Println("[SelfUpdate] downloading " + assetURL)
	body, err := u.fetcher.Download(ctx, assetURL)
	if err != nil {
		return release.TagName, false, fmt.Errorf("failed to download %s: %w", assetURL, err)
	}
	defer body.Close()

	if err := u.applier.Apply(body); err != nil {
		return release.TagName, false, fmt.Errorf("failed to apply update: %w", err)
	}
	return release.TagName, true, nil
}
