package retrieval

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/siherrmann/provenance/model"
)

// Provenance endpoint paths.
const (
	PagePath      = "/source/page"
	HighlightPath = "/source/highlight"
)

// ProvenanceURLs builds the page and highlight URLs of a paragraph below base.
func ProvenanceURLs(base string, docName string, docVersion string, page int, paraID string) (string, string) {
	base = strings.TrimRight(base, "/")

	query := url.Values{}
	query.Set("doc_name", docName)
	query.Set("doc_version", docVersion)
	query.Set("page", strconv.Itoa(page))
	pageURL := base + PagePath + "?" + query.Encode()

	query.Set("para_id", paraID)
	highlightURL := base + HighlightPath + "?" + query.Encode()

	return pageURL, highlightURL
}

// AttachURLs sets the provenance URLs of every hit.
func AttachURLs(base string, hits []*model.RetrievedHit) {
	for _, hit := range hits {
		hit.PageURL, hit.HighlightURL = ProvenanceURLs(base, hit.DocName, hit.DocVersion, hit.Page, hit.ParaID)
	}
}
