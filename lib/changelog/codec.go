package changelog

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pescuma/cvschanges/lib/model"
)

type Format string

const (
	XML  Format = "xml"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "xml":
		return XML, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", errors.Errorf("unknown change log format: %v", s)
	}
}

func Write(w io.Writer, cs *model.ChangeSet, format Format) error {
	log := FromChangeSet(cs)

	switch format {
	case XML:
		err := checkXML(log)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, xml.Header)
		if err != nil {
			return err
		}

		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")

		err = enc.Encode(log)
		if err != nil {
			return errors.Wrap(err, "error writing change log")
		}

		_, err = io.WriteString(w, "\n")
		return err

	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(log)
		if err != nil {
			return errors.Wrap(err, "error writing change log")
		}

		return enc.Close()

	default:
		return errors.Errorf("unknown change log format: %v", format)
	}
}

// MarshalYAML double quotes messages with surrounding whitespace, which block scalars do not keep.
func (e *Entry) MarshalYAML() (interface{}, error) {
	type plain Entry

	var node yaml.Node
	err := node.Encode((*plain)(e))
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(e.Message) != e.Message {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "msg" {
				node.Content[i+1].Style = yaml.DoubleQuotedStyle
			}
		}
	}

	return &node, nil
}

// checkXML fails on text that XML 1.0 cannot carry, like control characters or invalid UTF-8.
func checkXML(log *Log) error {
	var err error
	check := func(field string, texts ...string) {
		for _, text := range texts {
			if err != nil {
				return
			}

			for i := 0; i < len(text); {
				r, size := utf8.DecodeRuneInString(text[i:])
				if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
					err = errors.Errorf("%v has a character not allowed in XML at byte %v: %q", field, i, text)
					return
				}
				i += size
			}
		}
	}
	checkFile := func(f *File) {
		check("file", f.Name, f.FullName, f.Revision, f.PrevRevision)
	}

	check("root", log.Root)
	check("location", log.Location)
	for _, e := range log.Entries {
		check("author", e.Author)
		check("commit id", e.CommitID)
		check("commit message", e.Message)
		for _, f := range e.Files {
			checkFile(f)
		}
	}
	for _, f := range log.Files {
		checkFile(f)
	}
	check("branch", log.Branches...)
	check("tag", log.Tags...)

	return err
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

func Read(r io.Reader, format Format) (*model.ChangeSet, error) {
	var log Log

	switch format {
	case XML:
		err := xml.NewDecoder(r).Decode(&log)
		if err != nil {
			return nil, errors.Wrap(err, "error reading change log")
		}

	case YAML:
		err := yaml.NewDecoder(r).Decode(&log)
		if err != nil {
			return nil, errors.Wrap(err, "error reading change log")
		}

	default:
		return nil, errors.Errorf("unknown change log format: %v", format)
	}

	return log.ToChangeSet()
}
