// internal/estate/district.go
package estate

import "strings"

// districtCodes maps the 25 Seoul districts to their legal-dong code
// prefixes (first 5 digits).
var districtCodes = map[string]string{
	"강남구":  "11680",
	"강동구":  "11740",
	"강북구":  "11305",
	"강서구":  "11500",
	"관악구":  "11620",
	"광진구":  "11215",
	"구로구":  "11530",
	"금천구":  "11545",
	"노원구":  "11350",
	"도봉구":  "11320",
	"동대문구": "11230",
	"동작구":  "11590",
	"마포구":  "11440",
	"서대문구": "11410",
	"서초구":  "11650",
	"성동구":  "11200",
	"성북구":  "11290",
	"송파구":  "11710",
	"양천구":  "11470",
	"영등포구": "11560",
	"용산구":  "11170",
	"은평구":  "11380",
	"종로구":  "11110",
	"중구":   "11140",
	"중랑구":  "11260",
}

// ExtractDistrict returns the Seoul district name contained in the given
// address text, or "" when none matches.
func ExtractDistrict(address string) string {
	if address == "" {
		return ""
	}
	for district := range districtCodes {
		if strings.Contains(address, district) {
			return district
		}
	}
	return ""
}

// DistrictCode returns the legal-dong code prefix for a district name, or
// "" when the district is unknown.
func DistrictCode(district string) string {
	return districtCodes[district]
}
