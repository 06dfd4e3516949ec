// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package uploader

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// cloudinaryBase is the Cloudinary REST API root.
const cloudinaryBase = "https://api.cloudinary.com/v1_1"

// Cloudinary uploads recipe images to the Cloudinary image CDN using its
// signed REST API (upload and destroy endpoints).
type Cloudinary struct {
	cloud  string
	apiKey string
	secret string
	folder string
	client *http.Client
	base   string
	now    func() time.Time
}

// NewCloudinary creates a Cloudinary uploader. All credentials are required;
// folder namespaces the uploaded assets within the account.
func NewCloudinary(cloud, apiKey, secret, folder string) (*Cloudinary, error) {
	if cloud == "" || apiKey == "" || secret == "" {
		return nil, fmt.Errorf("cloudinary uploader: cloud name, api key, and secret are required")
	}
	return &Cloudinary{
		cloud:  cloud,
		apiKey: apiKey,
		secret: secret,
		folder: folder,
		client: &http.Client{Timeout: 60 * time.Second},
		base:   cloudinaryBase,
		now:    time.Now,
	}, nil
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload posts the image to the signed upload endpoint and returns the
// secure CDN URL.
func (u *Cloudinary) Upload(ctx context.Context, filename, _ string, data []byte) (string, error) {
	params := map[string]string{
		"timestamp": strconv.FormatInt(u.now().Unix(), 10),
	}
	if u.folder != "" {
		params["folder"] = u.folder
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("cloudinary form: %w", err)
		}
	}
	if err := mw.WriteField("api_key", u.apiKey); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	if err := mw.WriteField("signature", u.sign(params)); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.base, u.cloud)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("cloudinary request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cloudinary read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result cloudinaryUploadResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("cloudinary unmarshal: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: no secure_url returned")
	}
	return result.SecureURL, nil
}

// Delete destroys the asset behind rawURL by its public id. URLs outside
// this account are ignored.
func (u *Cloudinary) Delete(ctx context.Context, rawURL string) error {
	publicID, ok := u.extractPublicID(rawURL)
	if !ok {
		return nil
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(u.now().Unix(), 10),
	}
	form := url.Values{
		"public_id": {publicID},
		"timestamp": {params["timestamp"]},
		"api_key":   {u.apiKey},
		"signature": {u.sign(params)},
	}

	endpoint := fmt.Sprintf("%s/%s/image/destroy", u.base, u.cloud)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("cloudinary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloudinary API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Owns reports whether rawURL points at this account's delivery hostname.
func (u *Cloudinary) Owns(rawURL string) bool {
	_, ok := u.extractPublicID(rawURL)
	return ok
}

// sign computes the Cloudinary request signature: the parameters sorted by
// key, joined as a query string, with the API secret appended, SHA-1 hashed.
func (u *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + u.secret))
	return hex.EncodeToString(sum[:])
}

// extractPublicID recovers the public id from a delivery URL, e.g.
// https://res.cloudinary.com/<cloud>/image/upload/v123/recettes/abc.jpg
// → "recettes/abc". Returns ("", false) for foreign URLs.
func (u *Cloudinary) extractPublicID(rawURL string) (string, bool) {
	prefix := "https://res.cloudinary.com/" + u.cloud + "/image/upload/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	rest := rawURL[len(prefix):]

	// Skip transformation/version segments: the public id starts after the
	// last "v<digits>/" segment when one is present.
	parts := strings.Split(rest, "/")
	start := 0
	for i, p := range parts {
		if len(p) > 1 && p[0] == 'v' && isDigits(p[1:]) {
			start = i + 1
		}
	}
	if start >= len(parts) {
		return "", false
	}
	id := strings.Join(parts[start:], "/")

	// Strip the format extension.
	if dot := strings.LastIndex(id, "."); dot > 0 {
		id = id[:dot]
	}
	if id == "" {
		return "", false
	}
	return id, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
