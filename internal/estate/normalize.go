// internal/estate/normalize.go
package estate

import (
	"fmt"
	"strconv"
	"strings"

	"seoul-estate-search/internal/common/metrics"
)

// Dataset identifies an upstream schema. Each dataset has its own field
// names; the decode functions below map them onto the canonical records.
type Dataset string

const (
	// DatasetRTMS is the Seoul open-data transaction dataset
	// (tbLnOpendataRtmsV and its older rtmsApi field aliases).
	DatasetRTMS Dataset = "tbLnOpendataRtmsV"
	// DatasetAptTrade is the Korean-keyed apartment-trade row shape
	// (거래금액/법정동/...), dates split into year/month/day parts.
	DatasetAptTrade Dataset = "aptTrade"
	// DatasetAgents is the licensed broker registry.
	DatasetAgents Dataset = "LOCALDATA_072404"
)

// NormalizeTransaction decodes one raw upstream row into a canonical
// Transaction. A field that fails to parse defaults to its zero value and
// bumps a diagnostic counter; a single dirty row never fails a page.
func NormalizeTransaction(ds Dataset, row RawRow) Transaction {
	switch ds {
	case DatasetAptTrade:
		return decodeAptTradeRow(row)
	default:
		return decodeRTMSRow(ds, row)
	}
}

// decodeRTMSRow handles the Seoul RTMS schemas. Newer exports use
// THING_AMT/CTRT_DAY/CGG_NM, older ones OBJ_AMT/DEAL_YMD/SGG_NM; both carry
// a pre-joined 8-digit date.
func decodeRTMSRow(ds Dataset, row RawRow) Transaction {
	district := row.str("CGG_NM", "SGG_NM")
	neighborhood := row.str("STDG_NM", "BJDONG_NM")
	mainLot := row.str("MNO", "BOBN")
	subLot := row.str("SNO", "BUBN")

	return Transaction{
		Price:        parseAmount(ds, "amount", row.str("THING_AMT", "OBJ_AMT")),
		Area:         parseArea(ds, "area", row.str("ARCH_AREA", "BLDG_AREA")),
		Floor:        parseFloor(ds, "floor", row.str("FLR", "FLR_NO")),
		Date:         canonJoinedDate(ds, row.str("CTRT_DAY", "DEAL_YMD")),
		Address:      synthesizeAddress(district, neighborhood, mainLot, subLot),
		BuildingName: row.str("BLDG_NM"),
		District:     district,
		Neighborhood: neighborhood,
	}
}

// decodeAptTradeRow handles Korean-keyed apartment trade rows with split
// date parts.
func decodeAptTradeRow(row RawRow) Transaction {
	neighborhood := row.str("법정동")
	lot := row.str("지번")

	t := Transaction{
		Price:        parseAmount(DatasetAptTrade, "거래금액", row.str("거래금액")),
		Area:         parseArea(DatasetAptTrade, "전용면적", row.str("전용면적")),
		Floor:        parseFloor(DatasetAptTrade, "층", row.str("층")),
		Date:         canonSplitDate(row.str("년"), row.str("월"), row.str("일")),
		Address:      strings.TrimSpace(neighborhood + " " + lot),
		BuildingName: row.str("아파트"),
		DealType:     row.str("거래유형"),
		Dong:         row.str("동"),
		Neighborhood: neighborhood,
	}
	if y := row.str("건축년도"); y != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(y)); err == nil {
			t.BuildYear = n
		} else {
			metrics.NormalizeFieldErrors.WithLabelValues(string(DatasetAptTrade), "건축년도").Inc()
		}
	}
	return t
}

// NormalizeAgent decodes one broker registry row.
func NormalizeAgent(row RawRow) Agent {
	addr := row.str("RDNWHLADDR")
	if addr == "" {
		addr = row.str("SITEWHLADDR")
	}
	return Agent{
		OfficeName:     row.str("BPLCNM"),
		Address:        addr,
		Tel:            row.str("SITETEL"),
		Representative: row.str("BPLCNM"),
		Latitude:       parseArea(DatasetAgents, "Y", row.str("Y", "LAT")),
		Longitude:      parseArea(DatasetAgents, "X", row.str("X", "LNG")),
	}
}

// Business status and type markers for the broker registry.
const agentStatusOpen = "01"

var brokerKeywords = []string{"공인중개사", "부동산중개", "중개업"}

// FilterAgents normalizes broker rows and keeps only offices that are open
// for business, carry a broker designation, and whose address contains the
// search term or its district name.
func FilterAgents(rows []RawRow, term string) []Agent {
	district := ExtractDistrict(term)

	agents := []Agent{}
	for _, row := range rows {
		if row.str("TRDSTATEGBN") != agentStatusOpen {
			continue
		}
		if !isBrokerBusiness(row.str("UPTAENM")) {
			continue
		}
		agent := NormalizeAgent(row)
		if !agentAddressMatches(agent.Address, term, district) {
			continue
		}
		agents = append(agents, agent)
	}
	return agents
}

func isBrokerBusiness(businessType string) bool {
	if businessType == "부동산중개업" {
		return true
	}
	for _, kw := range brokerKeywords {
		if strings.Contains(businessType, kw) {
			return true
		}
	}
	return false
}

func agentAddressMatches(address, term, district string) bool {
	if term != "" && strings.Contains(address, term) {
		return true
	}
	return district != "" && strings.Contains(address, district)
}

// ==========================
// Field parsers
// ==========================

// parseAmount strips every non-digit (comma grouping, stray units) and
// parses the remainder as an integer in the upstream 10,000-KRW
// denomination. No multiplier is applied: "180,000" -> 180000.
func parseAmount(ds Dataset, field, raw string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		if raw != "" {
			metrics.NormalizeFieldErrors.WithLabelValues(string(ds), field).Inc()
		}
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		metrics.NormalizeFieldErrors.WithLabelValues(string(ds), field).Inc()
		return 0
	}
	return n
}

func parseArea(ds Dataset, field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		metrics.NormalizeFieldErrors.WithLabelValues(string(ds), field).Inc()
		return 0
	}
	return f
}

func parseFloor(ds Dataset, field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Floors occasionally arrive as "3.0"
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			return int(f)
		}
		metrics.NormalizeFieldErrors.WithLabelValues(string(ds), field).Inc()
		return 0
	}
	return n
}

// canonJoinedDate canonicalizes a pre-joined date to exactly 8 digits.
// Separators like "2024-01-05" are tolerated; anything that does not reduce
// to 8 digits is defaulted and counted.
func canonJoinedDate(ds Dataset, raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) != 8 {
		if raw != "" {
			metrics.NormalizeFieldErrors.WithLabelValues(string(ds), "date").Inc()
		}
		return "00000000"
	}
	return digits
}

// canonSplitDate joins year/month/day parts, zero-padding month and day.
func canonSplitDate(year, month, day string) string {
	y := strings.TrimSpace(year)
	m := strings.TrimSpace(month)
	d := strings.TrimSpace(day)
	if y == "" || m == "" || d == "" {
		metrics.NormalizeFieldErrors.WithLabelValues(string(DatasetAptTrade), "date").Inc()
		return "00000000"
	}
	return fmt.Sprintf("%s%02s%02s", y, m, d)
}

// synthesizeAddress builds "district neighborhood mainLot[-subLot]". The
// sub-lot segment is omitted entirely when absent or zero, never "-0".
func synthesizeAddress(district, neighborhood, mainLot, subLot string) string {
	parts := []string{}
	for _, p := range []string{district, neighborhood} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if mainLot != "" {
		lot := mainLot
		if subLot != "" && subLot != "0" {
			lot += "-" + subLot
		}
		parts = append(parts, lot)
	}
	return strings.Join(parts, " ")
}

// str returns the first non-empty value among keys, stringified. Upstream
// occasionally delivers numeric JSON for nominally-string fields.
func (r RawRow) str(keys ...string) string {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			if t == float64(int64(t)) {
				return strconv.FormatInt(int64(t), 10)
			}
			return strconv.FormatFloat(t, 'f', -1, 64)
		default:
			if s := strings.TrimSpace(fmt.Sprintf("%v", t)); s != "" {
				return s
			}
		}
	}
	return ""
}
