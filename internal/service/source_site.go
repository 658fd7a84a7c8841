package service

import (
	"net/url"
	"regexp"
	"strings"
)

// 已识别的来源站点 key,存入 artworks.source_site。
const (
	SourceSitePixiv      = "pixiv"
	SourceSiteX          = "x"
	SourceSiteDanbooru   = "danbooru"
	SourceSiteFanbox     = "fanbox"
	SourceSiteWeibo      = "weibo"
	SourceSiteDeviantArt = "deviantart"
	SourceSiteArtStation = "artstation"
	SourceSiteWeb        = "web"
)

var sourceSiteLabels = map[string]string{
	SourceSitePixiv:      "Pixiv",
	SourceSiteX:          "X (Twitter)",
	SourceSiteDanbooru:   "Danbooru",
	SourceSiteFanbox:     "FANBOX",
	SourceSiteWeibo:      "微博",
	SourceSiteDeviantArt: "DeviantArt",
	SourceSiteArtStation: "ArtStation",
}

// SourceSiteLabel 返回站点 key 的展示名,未知 key 原样返回。
func SourceSiteLabel(site string) string {
	if label, ok := sourceSiteLabels[site]; ok {
		return label
	}
	return site
}

// ArtworkSource 描述一条识别后的作品来源。
type ArtworkSource struct {
	Site         string // key, see SourceSite constants
	Label        string
	PostID       string // 站内作品 ID,无法提取时为空
	CanonicalURL string
}

var deviantArtIDPattern = regexp.MustCompile(`-(\d+)$`)

// ClassifySource 解析来源链接并归类到已知站点。
// 第二个返回值表示是否命中已知站点;未知但合法的链接归为 web,
// 标签使用主机名。无法解析的输入返回零值。
func ClassifySource(raw string) (ArtworkSource, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "<")
	trimmed = strings.TrimSuffix(trimmed, ">")
	trimmed = normalizeSourceURL(trimmed)

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil {
		return ArtworkSource{}, false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ArtworkSource{}, false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ArtworkSource{}, false
	}

	if source, ok := parsePixivSource(parsed); ok {
		return source, true
	}
	if source, ok := parseXSource(parsed); ok {
		return source, true
	}
	if source, ok := parseDanbooruSource(parsed); ok {
		return source, true
	}
	if source, ok := parseFanboxSource(parsed); ok {
		return source, true
	}
	if source, ok := parseWeiboSource(parsed); ok {
		return source, true
	}
	if source, ok := parseDeviantArtSource(parsed); ok {
		return source, true
	}
	if source, ok := parseArtStationSource(parsed); ok {
		return source, true
	}

	return ArtworkSource{
		Site:         SourceSiteWeb,
		Label:        host,
		CanonicalURL: trimmed,
	}, false
}

// normalizeSourceURL 为常见站点的无协议链接补上 https 前缀。
func normalizeSourceURL(raw string) string {
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	knownPrefixes := []string{
		"pixiv.net/",
		"www.pixiv.net/",
		"twitter.com/",
		"www.twitter.com/",
		"x.com/",
		"www.x.com/",
		"danbooru.donmai.us/",
		"fanbox.cc/",
		"www.fanbox.cc/",
		"weibo.com/",
		"www.weibo.com/",
		"deviantart.com/",
		"www.deviantart.com/",
		"artstation.com/",
		"www.artstation.com/",
	}
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "https://" + raw
		}
	}
	return raw
}

func parsePixivSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "pixiv.net") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	illustID := ""
	for idx, segment := range segments {
		if segment == "artworks" && idx+1 < len(segments) && onlyDigits(segments[idx+1]) {
			illustID = segments[idx+1]
			break
		}
	}
	// 旧式 member_illust.php?illust_id=123
	if illustID == "" && strings.HasSuffix(u.Path, "member_illust.php") {
		if candidate := u.Query().Get("illust_id"); onlyDigits(candidate) {
			illustID = candidate
		}
	}

	source := ArtworkSource{
		Site:         SourceSitePixiv,
		Label:        sourceSiteLabels[SourceSitePixiv],
		PostID:       illustID,
		CanonicalURL: u.String(),
	}
	if illustID != "" {
		source.CanonicalURL = "https://www.pixiv.net/artworks/" + illustID
	}
	return source, true
}

func parseXSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "twitter.com") && !isHostOrSubdomain(host, "x.com") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	userName := ""
	tweetID := ""
	for idx, segment := range segments {
		if segment == "status" && idx >= 1 && idx+1 < len(segments) && onlyDigits(segments[idx+1]) {
			userName = segments[idx-1]
			tweetID = segments[idx+1]
			break
		}
	}

	source := ArtworkSource{
		Site:         SourceSiteX,
		Label:        sourceSiteLabels[SourceSiteX],
		PostID:       tweetID,
		CanonicalURL: u.String(),
	}
	if userName != "" && tweetID != "" {
		source.CanonicalURL = "https://x.com/" + userName + "/status/" + tweetID
	}
	return source, true
}

func parseDanbooruSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "donmai.us") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	postID := ""
	if len(segments) >= 2 && segments[0] == "posts" && onlyDigits(segments[1]) {
		postID = segments[1]
	}

	source := ArtworkSource{
		Site:         SourceSiteDanbooru,
		Label:        sourceSiteLabels[SourceSiteDanbooru],
		PostID:       postID,
		CanonicalURL: u.String(),
	}
	if postID != "" {
		source.CanonicalURL = "https://danbooru.donmai.us/posts/" + postID
	}
	return source, true
}

func parseFanboxSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "fanbox.cc") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	postID := ""
	for idx, segment := range segments {
		if segment == "posts" && idx+1 < len(segments) && onlyDigits(segments[idx+1]) {
			postID = segments[idx+1]
			break
		}
	}

	return ArtworkSource{
		Site:         SourceSiteFanbox,
		Label:        sourceSiteLabels[SourceSiteFanbox],
		PostID:       postID,
		CanonicalURL: u.String(),
	}, true
}

func parseWeiboSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "weibo.com") && !isHostOrSubdomain(host, "weibo.cn") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	postID := ""
	if len(segments) >= 2 && onlyDigits(segments[0]) {
		postID = segments[1]
	}

	return ArtworkSource{
		Site:         SourceSiteWeibo,
		Label:        sourceSiteLabels[SourceSiteWeibo],
		PostID:       postID,
		CanonicalURL: u.String(),
	}, true
}

func parseDeviantArtSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "deviantart.com") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	postID := ""
	for idx, segment := range segments {
		if segment == "art" && idx+1 < len(segments) {
			if match := deviantArtIDPattern.FindStringSubmatch(segments[idx+1]); match != nil {
				postID = match[1]
			}
			break
		}
	}

	return ArtworkSource{
		Site:         SourceSiteDeviantArt,
		Label:        sourceSiteLabels[SourceSiteDeviantArt],
		PostID:       postID,
		CanonicalURL: u.String(),
	}, true
}

func parseArtStationSource(u *url.URL) (ArtworkSource, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "artstation.com") {
		return ArtworkSource{}, false
	}

	segments := splitPathSegments(u.Path)
	postID := ""
	if len(segments) >= 2 && segments[0] == "artwork" {
		postID = segments[1]
	}

	return ArtworkSource{
		Site:         SourceSiteArtStation,
		Label:        sourceSiteLabels[SourceSiteArtStation],
		PostID:       postID,
		CanonicalURL: u.String(),
	}, true
}

func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func onlyDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

func isHostOrSubdomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
