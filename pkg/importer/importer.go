// Package importer parses conversation transcripts from TXT and CSV
// sources into messages ready for bulk insertion. Both formats carry
// rows of (speaker, content); resolving speakers to a sender side and a
// character version happens here so the document operation only sees
// finished messages.
package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pairlog/pkg/models"
	"pairlog/pkg/pairs"
)

// ErrNoRows is returned when a source parses cleanly but yields no
// usable messages.
var ErrNoRows = errors.New("no importable rows")

// Row is one transcript line before speaker resolution.
type Row struct {
	Speaker string
	Content string
}

// txtLineRe matches the "[speaker] content" transcript line format.
var txtLineRe = regexp.MustCompile(`^\[(.+?)\]\s*(.*)$`)

// ParseTXT reads "[speaker] content" lines. Blank lines and lines
// without a bracketed speaker are skipped rather than treated as
// errors; exported transcripts often carry decorative separators.
func ParseTXT(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := txtLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows = append(rows, Row{
			Speaker: strings.TrimSpace(m[1]),
			Content: strings.TrimSpace(m[2]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseCSV reads speaker,content rows, skipping the header row. Extra
// columns are ignored and short rows are dropped.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var rows []Row
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		row := Row{
			Speaker: strings.TrimSpace(rec[0]),
			Content: strings.TrimSpace(rec[1]),
		}
		if row.Speaker == "" || row.Content == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NameMap binds transcript speaker names to the two sides of the pair.
// Speakers matching neither name fall back to the other side.
type NameMap struct {
	Me    string
	Other string
}

// Resolve turns parsed rows into import-ready messages. Each message
// gets the first character version of its side, matching what a fresh
// conversation would show. Rows with empty content are dropped;
// ErrNoRows is returned when nothing survives.
func Resolve(rows []Row, names NameMap, chars models.Characters) ([]pairs.ImportedMessage, error) {
	var msgs []pairs.ImportedMessage
	for _, row := range rows {
		if row.Content == "" {
			continue
		}
		sender := models.SenderOther
		versions := chars.Other
		if row.Speaker == names.Me {
			sender = models.SenderMe
			versions = chars.Me
		}
		versionID := ""
		if len(versions) > 0 {
			versionID = versions[0].ID
		}
		msgs = append(msgs, pairs.ImportedMessage{
			Sender:             sender,
			Content:            row.Content,
			CharacterVersionID: versionID,
		})
	}
	if len(msgs) == 0 {
		return nil, ErrNoRows
	}
	return msgs, nil
}

var (
	sheetIDRe  = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)
	sheetGIDRe = regexp.MustCompile(`[#&]gid=([0-9]+)`)
)

// SheetCSVURL converts a Google Sheets share URL into its CSV export
// URL. The gid defaults to 0, the first sheet.
func SheetCSVURL(shareURL string) (string, error) {
	m := sheetIDRe.FindStringSubmatch(shareURL)
	if m == nil {
		return "", errors.New("not a google sheets url")
	}
	gid := "0"
	if g := sheetGIDRe.FindStringSubmatch(shareURL); g != nil {
		gid = g[1]
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", m[1], gid), nil
}

var sheetClient = &http.Client{Timeout: 15 * time.Second}

// FetchSheet downloads a shared Google Sheet as CSV rows.
func FetchSheet(ctx context.Context, shareURL string) ([]Row, error) {
	csvURL, err := SheetCSVURL(shareURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, csvURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := sheetClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet export returned status %d", resp.StatusCode)
	}
	return ParseCSV(resp.Body)
}
