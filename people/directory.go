/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package people

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	otrace "go.opencensus.io/trace"

	"github.com/hypermodeinc/phonebook/x"
)

// DefaultDirectoryURL is where the people directory listens by default.
const DefaultDirectoryURL = "http://localhost:3000/person"

// maxDirectoryBody bounds how much of a directory response is read.
var maxDirectoryBody int64 = 32 << 20

// PhoneSelector restricts a directory listing by phone presence.
type PhoneSelector string

const (
	// WithPhone keeps only people with a non-empty phone.
	WithPhone PhoneSelector = "YES"
	// WithoutPhone keeps only people with no phone, or an empty one.
	WithoutPhone PhoneSelector = "NO"
)

// Directory is a client for the external people directory, a REST service
// answering GET with a JSON array of person records.
type Directory struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewDirectory returns a Directory reading from url.  A nil client means
// http.DefaultClient.  A timeout of 0 leaves the call unbounded.
func NewDirectory(url string, client *http.Client, timeout time.Duration) *Directory {
	if client == nil {
		client = http.DefaultClient
	}
	return &Directory{url: url, client: client, timeout: timeout}
}

// URL returns the endpoint the directory reads from.
func (d *Directory) URL() string {
	return d.url
}

// List fetches everyone in the directory, once, and filters them by selector
// when it is non-nil.  Any failure to get a well formed list is returned as an
// UpstreamUnavailable.  There are no retries.
func (d *Directory) List(ctx context.Context, selector *PhoneSelector) ([]Person, error) {
	ctx, span := otrace.StartSpan(ctx, "Directory.List")
	defer span.End()

	start := time.Now()
	ctx = x.WithMethod(ctx, "Directory.List")
	people, err := d.fetch(ctx)
	x.RecordWithStatus(ctx, err, x.NumUpstreamRequests.M(1), x.LatencyMs.M(x.SinceMs(start)))
	if err != nil {
		span.Annotate(nil, err.Error())
		glog.Errorf("Error reading people directory at %s: %+v", d.url, err)
		return nil, errUpstream(err)
	}

	if selector == nil {
		return people, nil
	}
	return filterByPhone(people, *selector)
}

func (d *Directory) fetch(ctx context.Context) ([]Person, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "while building directory request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "while calling %s", d.url)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDirectoryBody+1))
	if err != nil {
		return nil, errors.Wrap(err, "while reading directory response")
	}
	if int64(len(b)) > maxDirectoryBody {
		return nil, errors.Errorf("directory response is larger than %d bytes", maxDirectoryBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("directory answered %s", resp.Status)
	}
	return decodeDirectory(b)
}

// decodeDirectory turns the directory's JSON array into people.  The
// directory isn't bound to this service's types, so scalar fields are taken in
// whatever JSON form they come and cast to strings.  A null or missing phone
// or email stays absent.
func decodeDirectory(b []byte) ([]Person, error) {
	var records []map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, errors.Wrap(err, "while decoding directory response")
	}

	people := make([]Person, 0, len(records))
	for i, rec := range records {
		var p Person
		var err error
		if p.Name, err = cast.ToStringE(nullToEmpty(rec["name"])); err != nil {
			return nil, errors.Wrapf(err, "record %d: name", i)
		}
		if p.Street, err = cast.ToStringE(nullToEmpty(rec["street"])); err != nil {
			return nil, errors.Wrapf(err, "record %d: street", i)
		}
		if p.City, err = cast.ToStringE(nullToEmpty(rec["city"])); err != nil {
			return nil, errors.Wrapf(err, "record %d: city", i)
		}
		if p.ID, err = cast.ToStringE(nullToEmpty(rec["id"])); err != nil {
			return nil, errors.Wrapf(err, "record %d: id", i)
		}
		if p.Phone, err = optionalString(rec["phone"]); err != nil {
			return nil, errors.Wrapf(err, "record %d: phone", i)
		}
		if p.Email, err = optionalString(rec["email"]); err != nil {
			return nil, errors.Wrapf(err, "record %d: email", i)
		}
		people = append(people, p)
	}
	return people, nil
}

func nullToEmpty(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}

func optionalString(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func filterByPhone(people []Person, selector PhoneSelector) ([]Person, error) {
	var want bool
	switch selector {
	case WithPhone:
		want = true
	case WithoutPhone:
		want = false
	default:
		return nil, errors.Errorf("unknown phone selector %q", string(selector))
	}

	out := make([]Person, 0, len(people))
	for _, p := range people {
		if p.HasPhone() == want {
			out = append(out, p)
		}
	}
	return out, nil
}
