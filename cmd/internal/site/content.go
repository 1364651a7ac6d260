package site

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

type Content struct {
	Firm     Firm         `yaml:"firm"`
	Contact  ContactInfo  `yaml:"contact"`
	Services []ServiceDoc `yaml:"services"`
	Values   []Point      `yaml:"values"`
	Process  []Point      `yaml:"process"`
}

type Firm struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Tagline   string `yaml:"tagline"`
	Summary   string `yaml:"summary"`
	About     string `yaml:"about"`
}

type ContactInfo struct {
	Phone        string        `yaml:"phone"`
	Email        string        `yaml:"email"`
	HoursNote    string        `yaml:"hours_note"`
	ResponseNote string        `yaml:"response_note"`
	Offices      []Office      `yaml:"offices"`
	Hours        []OpeningTime `yaml:"hours"`
}

type Office struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type OpeningTime struct {
	Days string `yaml:"days"`
	Time string `yaml:"time"`
}

// ServiceDoc is one entry of the public service catalogue.
type ServiceDoc struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

type Point struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// LoadContent decodes the embedded site content.
func LoadContent() (*Content, error) {
	return ParseContent(contentYAML)
}

func ParseContent(raw []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode site content: %w", err)
	}
	if c.Firm.Name == "" {
		return nil, errors.New("site content has no firm name")
	}
	if c.Firm.ShortName == "" {
		c.Firm.ShortName = c.Firm.Name
	}
	return &c, nil
}
