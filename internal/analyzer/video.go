package analyzer

import (
	"net/url"
	"strings"
)

// VideoSelectors are the CSS selectors that mark a page as carrying video.
// They are tried in order and the first match wins.
var VideoSelectors = []string{
	"video",
	`iframe[src*="youtube"]`,
	`iframe[src*="youtu.be"]`,
	`iframe[src*="vimeo"]`,
	`iframe[src*="twitch"]`,
	`iframe[src*="pornhub"]`,
	`iframe[src*="xvideos"]`,
	`iframe[src*="xhamster"]`,
	`iframe[src*="redtube"]`,
	`iframe[src*="youporn"]`,
	`iframe[src*="tube8"]`,
	`iframe[src*="spankbang"]`,
	`iframe[src*="chaturbate"]`,
	`iframe[src*="cam4"]`,
	`iframe[src*="streamate"]`,
	`embed[src*="video"]`,
	`object[data*="video"]`,
	".video-player",
	`[class*="video-"]`,
	`[id*="video-"]`,
	`[class*="player-"]`,
	`[id*="player-"]`,
	`[class*="stream-"]`,
	`[id*="stream-"]`,
}

var adultSitePatterns = []string{
	"pornhub.com", "xvideos.com", "xhamster.com", "redtube.com",
	"youporn.com", "tube8.com", "spankbang.com", "chaturbate.com",
	"cam4.com", "streamate.com", "camsoda.com", "myfreecams.com",
	"bongacams.com", "stripchat.com", "livejasmin.com", "flirt4free.com",
}

var videoHosts = []string{"youtube", "vimeo", "twitch", "pornhub", "xvideos", "xhamster"}

// IsAdultURL reports whether the URL belongs to a known adult video site.
// Such pages count as video regardless of their markup.
func IsAdultURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, p := range adultSitePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsVideoHost reports whether the URL's host is a known video site.
func IsVideoHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, site := range videoHosts {
		if strings.Contains(host, site) {
			return true
		}
	}
	return false
}

// FromURL derives a minimal result from the URL alone, for pages that
// could not be fetched: the domain token as the only keyword, when it is a
// valid tag, and a video flag from the host name.
func FromURL(rawURL string) AnalysisResult {
	return AnalysisResult{
		Keywords: NewExtractor().Select(Candidates{}, DomainToken(rawURL)),
		HasVideo: IsVideoHost(rawURL),
	}
}
