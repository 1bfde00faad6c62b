// Package xmlout emits the build's CountryOutputRecord set as the on-device
// time zone lookup XML document. encoding/xml is used directly: this is
// the one boundary left on the standard library (see DESIGN.md) because the
// attribute/element shape is a fixed, simple contract with no compression,
// streaming, or schema-evolution need that would justify a third-party
// encoder.
package xmlout

import (
	"encoding/xml"
	"fmt"
	"io"

	"tzcore/internal/country"
)

type document struct {
	XMLName     xml.Name  `xml:"timeZones"`
	IanaVersion string    `xml:"ianaVersion,attr"`
	Countries   []countryElem `xml:"country"`
}

type countryElem struct {
	Code      string    `xml:"code,attr"`
	Default   string    `xml:"default,attr"`
	EverUtc   string    `xml:"everutc,attr"`
	Boost     string    `xml:"boost,attr,omitempty"`
	Zones     []zoneElem `xml:"id"`
}

type zoneElem struct {
	Text      string `xml:",chardata"`
	Picker    string `xml:"picker,attr,omitempty"`
	NotAfter  string `xml:"notafter,attr,omitempty"`
	Repl      string `xml:"repl,attr,omitempty"`
	Alts      string `xml:"alts,attr,omitempty"`
}

// Write renders records as the time zone lookup XML document to w.
func Write(w io.Writer, ianaVersion string, records []*country.OutputRecord) error {
	doc := document{IanaVersion: ianaVersion}
	for _, rec := range records {
		ce := countryElem{
			Code:    string(rec.IsoCode),
			Default: string(rec.DefaultZoneId),
			EverUtc: boolToYN(rec.EverUsesUtc),
		}
		if rec.DefaultTimeZoneBoost {
			ce.Boost = "y"
		}
		for _, z := range rec.Zones {
			ze := zoneElem{Text: string(z.ZoneId)}
			if !z.ShownInPicker {
				ze.Picker = "n"
			}
			if z.Alts != nil {
				ze.Alts = string(*z.Alts)
			}
			if z.NotUsedAfter != nil {
				ze.NotAfter = fmt.Sprintf("%d", int64(*z.NotUsedAfter))
				if z.Replacement != nil {
					ze.Repl = string(*z.Replacement)
				}
			}
			ce.Zones = append(ce.Zones, ze)
		}
		doc.Countries = append(doc.Countries, ce)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding xml: %w", err)
	}
	return nil
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
