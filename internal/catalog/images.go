package catalog

import (
	"context"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/blobstore"
	"real-estate-catalog/internal/history"
	"real-estate-catalog/internal/models"
)

// ReplaceImages swaps the whole image set of a property for the given files.
// Files beyond the per-property cap are ignored. Returns the public URLs in order.
func (s *Service) ReplaceImages(ctx context.Context, id string, files []blobstore.Payload) ([]string, error) {
	if len(files) == 0 {
		return nil, apperr.BadRequest("at least one image file is required")
	}
	if len(files) > s.rules.MaxImages {
		s.logger.Warn("too many images, keeping the first ones",
			"property_id", id, "received", len(files), "max", s.rules.MaxImages)
		files = files[:s.rules.MaxImages]
	}

	exists, err := s.store.PropertyExists(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected("failed to load property", err)
	}
	if !exists {
		return nil, apperr.NotFound("Property", id)
	}

	for _, f := range files {
		if err := blobstore.Validate(f, s.rules.MaxFileSize); err != nil {
			return nil, err
		}
	}

	refs := make([]string, 0, len(files))
	for _, f := range files {
		ref, err := s.blobs.Store(ctx, f)
		if err != nil {
			s.discardBlobs(ctx, id, refs)
			return nil, apperr.UploadFailure("failed to store image "+f.Filename, err)
		}
		refs = append(refs, ref)
	}

	var previous []string
	err = s.store.WithinTransaction(ctx, func(tx Store) error {
		current, err := tx.GetPropertyForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous = ownedRefs(current)

		if _, err := tx.DeleteImagesByPropertyID(ctx, id); err != nil {
			return err
		}

		images := make([]models.PropertyImage, 0, len(refs))
		for i, ref := range refs {
			images = append(images, models.PropertyImage{
				PropertyID: id,
				Reference:  ref,
				ImageOrder: i,
			})
		}
		if err := tx.CreateImages(ctx, images); err != nil {
			return err
		}

		change := history.ImagesReplaced(current, current.ImageRefs(), refs, s.now())
		updated := *current
		updated.CoverImage = refs[0]
		if err := tx.SaveProperty(ctx, &updated, current.Version); err != nil {
			return err
		}
		return tx.RecordChanges(ctx, []models.PropertyChange{change})
	})
	if err != nil {
		s.discardBlobs(ctx, id, refs)
		return nil, storeError("failed to replace images", id, err)
	}

	s.cache.EvictAll(ctx)
	s.discardBlobs(ctx, id, previous)
	if p, err := s.store.GetPropertyByID(ctx, id); err == nil {
		s.syncIndex(p)
	}
	s.logger.Info("property images replaced", "property_id", id, "images", len(refs), "removed", len(previous))

	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		urls = append(urls, s.blobs.URL(ref))
	}
	return urls, nil
}

// Delete removes a property and its image rows in one transaction, then
// deletes the image blobs. Blob failures are logged, never returned.
func (s *Service) Delete(ctx context.Context, id string) error {
	var refs []string
	err := s.store.WithinTransaction(ctx, func(tx Store) error {
		current, err := tx.GetPropertyForUpdate(ctx, id)
		if err != nil {
			return err
		}
		refs = ownedRefs(current)

		if _, err := tx.DeleteImagesByPropertyID(ctx, id); err != nil {
			return err
		}
		if err := tx.DeletePropertyByID(ctx, id); err != nil {
			return err
		}
		return tx.RecordDeletion(ctx, &models.DeleteLog{
			PropertyID: current.ID,
			Title:      current.Title,
			ImageCount: len(current.Images),
			Version:    current.Version,
			DeletedAt:  s.now(),
			Reason:     models.DeleteReasonManual,
		})
	})
	if err != nil {
		return storeError("failed to delete property", id, err)
	}

	s.cache.EvictAll(ctx)
	s.discardBlobs(ctx, id, refs)
	s.removeFromIndex(id)
	s.logger.Info("property deleted", "property_id", id, "images", len(refs))
	return nil
}

// discardBlobs deletes blobs best-effort, even after ctx is cancelled
func (s *Service) discardBlobs(ctx context.Context, id string, refs []string) {
	ctx = context.WithoutCancel(ctx)
	for _, ref := range refs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.logger.Warn("failed to delete image blob", "property_id", id, "ref", ref, "error", err)
		}
	}
}

// ownedRefs lists every blob a property references, cover included
func ownedRefs(p *models.Property) []string {
	refs := p.ImageRefs()
	if p.CoverImage == "" {
		return refs
	}
	for _, ref := range refs {
		if ref == p.CoverImage {
			return refs
		}
	}
	return append(refs, p.CoverImage)
}
