// Package catalog holds the static course hierarchy: course, chapters,
// sub-chapters and their materials, plus the coupon table. It is parsed once
// at start and never mutated, so lookups need no locking.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

//go:embed course.json
var defaultCatalog []byte

// Course is the single purchasable course.
type Course struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Price            int64    `json:"price"`
	Currency         string   `json:"currency"`
	Image            string   `json:"image"`
	Features         []string `json:"features"`
	WhatYouWillLearn []string `json:"whatYouWillLearn"`
}

// DiscountKind is how a coupon reduces the price.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Coupon is a named discount rule.
type Coupon struct {
	Code  string       `json:"code"`
	Kind  DiscountKind `json:"type"`
	Value int64        `json:"value"`
}

type Chapter struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Order       int          `json:"order"`
	IsFree      bool         `json:"isFree"`
	Icon        string       `json:"icon"`
	SubChapters []SubChapter `json:"subChapters"`
}

type SubChapter struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	Duration    string    `json:"duration"`
	Materials   Materials `json:"materials"`
}

type Materials struct {
	Videos  []Media `json:"videos"`
	Audios  []Media `json:"audios"`
	PDFs    []Media `json:"pdfs"`
	Quizzes []Quiz  `json:"quizzes"`
}

// Media is a video, audio track or PDF.
type Media struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Duration    string `json:"duration,omitempty"`
}

type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Catalog indexes the course content for lookups by id.
type Catalog struct {
	course       Course
	chapters     []Chapter
	coupons      map[string]Coupon
	chapterIndex map[string]int
}

type document struct {
	Course   Course    `json:"course"`
	Coupons  []Coupon  `json:"coupons"`
	Chapters []Chapter `json:"chapters"`
}

// Default parses the embedded course document.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse builds a Catalog from a JSON document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Course.ID == "" {
		return nil, errors.New("catalog: course id missing")
	}
	if doc.Course.Price <= 0 {
		return nil, fmt.Errorf("catalog: course price must be positive, got %d", doc.Course.Price)
	}

	c := &Catalog{
		course:       doc.Course,
		chapters:     doc.Chapters,
		coupons:      make(map[string]Coupon, len(doc.Coupons)),
		chapterIndex: make(map[string]int, len(doc.Chapters)),
	}

	for _, cp := range doc.Coupons {
		cp.Code = NormalizeCode(cp.Code)
		if cp.Code == "" {
			return nil, errors.New("catalog: coupon without code")
		}
		if cp.Kind != DiscountPercentage && cp.Kind != DiscountFixed {
			return nil, fmt.Errorf("catalog: coupon %s has unknown type %q", cp.Code, cp.Kind)
		}
		if cp.Value < 0 || (cp.Kind == DiscountPercentage && cp.Value > 100) {
			return nil, fmt.Errorf("catalog: coupon %s has invalid value %d", cp.Code, cp.Value)
		}
		c.coupons[cp.Code] = cp
	}

	sort.SliceStable(c.chapters, func(i, j int) bool { return c.chapters[i].Order < c.chapters[j].Order })
	for i := range c.chapters {
		ch := &c.chapters[i]
		if _, dup := c.chapterIndex[ch.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate chapter %s", ch.ID)
		}
		c.chapterIndex[ch.ID] = i
		sort.SliceStable(ch.SubChapters, func(a, b int) bool { return ch.SubChapters[a].Order < ch.SubChapters[b].Order })
	}
	return c, nil
}

// NormalizeCode is the canonical form of a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Catalog) Course() Course {
	return c.course
}

// Chapters returns chapters in display order.
func (c *Catalog) Chapters() []Chapter {
	return c.chapters
}

func (c *Catalog) Chapter(id string) (Chapter, bool) {
	i, ok := c.chapterIndex[id]
	if !ok {
		return Chapter{}, false
	}
	return c.chapters[i], true
}

// Coupon looks a code up case-insensitively.
func (c *Catalog) Coupon(code string) (Coupon, bool) {
	cp, ok := c.coupons[NormalizeCode(code)]
	return cp, ok
}

// Quizzes returns every quiz of the chapter's sub-chapters, in order.
func (ch Chapter) Quizzes() []Quiz {
	var out []Quiz
	for _, sub := range ch.SubChapters {
		out = append(out, sub.Materials.Quizzes...)
	}
	return out
}

func (ch Chapter) Quiz(id string) (Quiz, bool) {
	for _, sub := range ch.SubChapters {
		for _, q := range sub.Materials.Quizzes {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Quiz{}, false
}

func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}
