// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package uploader stores recipe images on an external asset backend and
// hands back the public URL recipes reference. Backends: an S3-compatible
// bucket and the Cloudinary image CDN.
package uploader

import "context"

// Uploader is a swappable asset backend. Delete is best-effort and only
// acts on URLs the backend recognizes as its own — foreign URLs are left
// alone so a recipe pointing at an external image never breaks anything.
type Uploader interface {
	// Upload stores the image bytes and returns their public URL.
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)

	// Delete removes the asset behind rawURL if this backend owns it.
	// Unrecognized URLs are a silent no-op.
	Delete(ctx context.Context, rawURL string) error

	// Owns reports whether rawURL points into this backend's managed area.
	Owns(rawURL string) bool
}
