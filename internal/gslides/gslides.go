// Package gslides implements md2slides.Backend on the Google Slides API.
package gslides

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"

	md2slides "github.com/alnah/go-md2slides"
)

// Scope is the OAuth scope needed to create and edit presentations.
const Scope = slides.PresentationsScope

// rangeType addresses text by explicit start and end indexes.
const rangeType = "FIXED_RANGE"

// ErrUnknownInstruction indicates an Instruction with no field set.
var ErrUnknownInstruction = errors.New("instruction has no request")

var _ md2slides.Backend = (*Client)(nil)

// Client talks to the Slides API.
type Client struct {
	svc *slides.Service
}

// New creates a Client. Pass option.WithHTTPClient with an authorized client;
// tests use option.WithEndpoint to target a fake server.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := slides.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating Slides service: %w", md2slides.ErrBackendCommunication, err)
	}
	return &Client{svc: svc}, nil
}

// NewWithHTTPClient is a shortcut for New with option.WithHTTPClient.
func NewWithHTTPClient(ctx context.Context, hc *http.Client) (*Client, error) {
	return New(ctx, option.WithHTTPClient(hc))
}

// CreateDeck creates an empty presentation titled title.
func (c *Client) CreateDeck(ctx context.Context, title string) (*md2slides.Deck, error) {
	p, err := c.svc.Presentations.Create(&slides.Presentation{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, wrap("creating presentation", err)
	}
	return toDeck(p), nil
}

// GetDeck reads presentation id.
func (c *Client) GetDeck(ctx context.Context, id string) (*md2slides.Deck, error) {
	p, err := c.svc.Presentations.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, wrap("reading presentation "+id, err)
	}
	return toDeck(p), nil
}

// BatchApply sends instructions as one batchUpdate. The API applies the
// batch atomically: if any request fails, none is applied.
func (c *Client) BatchApply(ctx context.Context, deckID string, instructions []md2slides.Instruction) error {
	reqs := make([]*slides.Request, 0, len(instructions))
	for i, in := range instructions {
		r, err := toRequest(in)
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
		reqs = append(reqs, r)
	}

	body := &slides.BatchUpdatePresentationRequest{Requests: reqs}
	if _, err := c.svc.Presentations.BatchUpdate(deckID, body).Context(ctx).Do(); err != nil {
		return wrap("updating presentation "+deckID, err)
	}
	return nil
}

// IsUnauthorized reports whether err is an API rejection of the credentials.
func IsUnauthorized(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", md2slides.ErrBackendCommunication, op, err)
}

// toDeck converts an API presentation. Slide layout names are resolved
// through the presentation's layouts.
func toDeck(p *slides.Presentation) *md2slides.Deck {
	d := &md2slides.Deck{ID: p.PresentationId}

	layoutNames := make(map[string]string, len(p.Layouts))
	for _, l := range p.Layouts {
		if l == nil || l.LayoutProperties == nil {
			continue
		}
		layoutNames[l.ObjectId] = l.LayoutProperties.Name
		d.Layouts = append(d.Layouts, md2slides.Layout{ID: l.ObjectId, Name: l.LayoutProperties.Name})
	}

	for _, s := range p.Slides {
		if s == nil {
			continue
		}
		page := md2slides.Page{ID: s.ObjectId}
		if s.SlideProperties != nil {
			page.LayoutName = layoutNames[s.SlideProperties.LayoutObjectId]
		}
		for _, e := range s.PageElements {
			if e == nil {
				continue
			}
			el := md2slides.PageElement{ID: e.ObjectId}
			if e.Shape != nil && e.Shape.Placeholder != nil {
				el.PlaceholderType = e.Shape.Placeholder.Type
			}
			page.Elements = append(page.Elements, el)
		}
		d.Slides = append(d.Slides, page)
	}
	return d
}

// toRequest maps one instruction to its API request.
func toRequest(in md2slides.Instruction) (*slides.Request, error) {
	switch {
	case in.CreateSlide != nil:
		return &slides.Request{CreateSlide: &slides.CreateSlideRequest{
			ObjectId:             in.CreateSlide.ObjectID,
			SlideLayoutReference: &slides.LayoutReference{LayoutId: in.CreateSlide.LayoutID},
		}}, nil

	case in.DeleteObject != nil:
		return &slides.Request{DeleteObject: &slides.DeleteObjectRequest{
			ObjectId: in.DeleteObject.ObjectID,
		}}, nil

	case in.InsertText != nil:
		return &slides.Request{InsertText: &slides.InsertTextRequest{
			ObjectId: in.InsertText.ObjectID,
			Text:     in.InsertText.Text,
		}}, nil

	case in.UpdateTextStyle != nil:
		u := in.UpdateTextStyle
		return &slides.Request{UpdateTextStyle: &slides.UpdateTextStyleRequest{
			ObjectId:  u.ObjectID,
			TextRange: toRange(u.Range),
			Style:     toTextStyle(u.Style),
			Fields:    u.Fields,
		}}, nil

	case in.CreateParagraphBullets != nil:
		b := in.CreateParagraphBullets
		return &slides.Request{CreateParagraphBullets: &slides.CreateParagraphBulletsRequest{
			ObjectId:     b.ObjectID,
			TextRange:    toRange(b.Range),
			BulletPreset: b.Preset,
		}}, nil
	}
	return nil, ErrUnknownInstruction
}

func toRange(r md2slides.TextRange) *slides.Range {
	return &slides.Range{
		Type:       rangeType,
		StartIndex: googleapi.Int64(int64(r.Start)),
		EndIndex:   googleapi.Int64(int64(r.End)),
	}
}

func toTextStyle(s md2slides.TextStyle) *slides.TextStyle {
	ts := &slides.TextStyle{
		Bold:          s.Bold,
		Italic:        s.Italic,
		Strikethrough: s.Strikethrough,
		FontFamily:    s.FontFamily,
	}
	if s.LinkURL != "" {
		ts.Link = &slides.Link{Url: s.LinkURL}
	}
	return ts
}
