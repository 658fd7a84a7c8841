package view

import "strings"

// PlatformIconOption describes a selectable icon option for artist links.
type PlatformIconOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type platformIconAsset struct {
	Key   string
	SVG   string
	Label string
}

var (
	platformIconDefinitions = []platformIconAsset{
		{Key: "pixiv", Label: "Pixiv", SVG: `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M13.168 4.837c3.19 0 5.72 2.455 5.72 5.607 0 3.157-2.53 5.61-5.72 5.61-1.18 0-2.265-.345-3.177-.925v3.372l.806.39c.14.242-.042.436-.268.436H7.005c-.225 0-.408-.194-.268-.436l.773-.39V8.06a7.07 7.07 0 0 0-1.054 1.67l-.76-.567c.92-1.887 3.04-4.326 7.472-4.326zm-.05 1.127c-1.222 0-2.39.487-3.127 1.19v6.65c.798.574 1.864.926 3.127.926 2.513 0 4.39-1.988 4.39-4.286 0-2.295-1.877-4.48-4.39-4.48z"/></svg>`},
		{Key: "x", Label: "X / Twitter", SVG: `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M18.901 1.153h3.68l-8.04 9.19L24 22.846h-7.406l-5.8-7.584-6.638 7.584H.474l8.6-9.83L0 1.154h7.594l5.243 6.932ZM17.61 20.644h2.039L6.486 3.24H4.298Z"/></svg>`},
		{Key: "weibo", Label: "微博", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M10.5 21c-4.694 0-8.25-2.355-8.25-5.4 0-1.59.99-3.39 2.7-5.01C7.2 8.43 9.39 7.2 11.01 7.2c.6 0 1.08.15 1.38.48.42.45.48 1.11.24 1.89 1.17-.45 2.22-.48 2.88.12.54.51.63 1.32.3 2.28 1.89.39 3.24 1.5 3.24 3.06 0 2.79-3.69 5.97-8.55 5.97zM18.75 3a4.5 4.5 0 0 1 4.5 4.5M18.75 6a1.5 1.5 0 0 1 1.5 1.5"/></svg>`},
		{Key: "fanbox", Label: "FANBOX", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M20.25 7.5l-.625 10.632a2.25 2.25 0 0 1-2.247 2.118H6.622a2.25 2.25 0 0 1-2.247-2.118L3.75 7.5m8.25 3v6.75m0-6.75L9.75 12.75M12 10.5l2.25 2.25M3.375 7.5h17.25c.621 0 1.125-.504 1.125-1.125v-1.5c0-.621-.504-1.125-1.125-1.125H3.375c-.621 0-1.125.504-1.125 1.125v1.5c0 .621.504 1.125 1.125 1.125z"/></svg>`},
		{Key: "patreon", Label: "Patreon", SVG: `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M14.82 2.41c3.96 0 7.18 3.24 7.18 7.21 0 3.96-3.22 7.18-7.18 7.18-3.97 0-7.21-3.22-7.21-7.18 0-3.97 3.24-7.21 7.21-7.21M2 21.6h3.5V2.41H2V21.6z"/></svg>`},
		{Key: "website", Label: "个人网站", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M12 21c4.193 0 7.716-2.867 8.716-6.747M12 21c-4.193 0-7.716-2.867-8.716-6.747M12 21c2.485 0 4.5-4.03 4.5-9s-2.015-9-4.5-9m0 18c-2.485 0-4.5-4.03-4.5-9s2.015-9 4.5-9m0-0c3.365 0 6.299 1.847 7.843 4.582M12 3c-3.365 0-6.299 1.847-7.843 4.582m15.686 0c.737 1.305 1.157 2.812 1.157 4.418 0 .778-.099 1.533-.284 2.253m-.873 4.836C18.133 15.685 15.162 16.5 12 16.5s-6.134-.815-8.716-2.247m0 0A8.948 8.948 0 0 1 3 12c0-1.605.42-3.112 1.157-4.417"/></svg>`},
		{Key: "email", Label: "邮箱", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M21.75 6.75v10.5a2.25 2.25 0 0 1-2.25 2.25h-15A2.25 2.25 0 0 1 2.25 17.25V6.75M21.75 6.75A2.25 2.25 0 0 0 19.5 4.5h-15A2.25 2.25 0 0 0 2.25 6.75v.243c0 .781.405 1.506 1.071 1.916l7.5 4.615a2.25 2.25 0 0 0 2.157 0l7.5-4.615a2.25 2.25 0 0 0 1.072-1.916V6.75"/></svg>`},
	}
	defaultPlatformIcon = platformIconAsset{Key: "default", Label: "默认", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M13.19 8.688a4.5 4.5 0 0 1 1.242 7.244l-4.5 4.5a4.5 4.5 0 0 1-6.364-6.364l1.757-1.757m13.35-.622 1.757-1.757a4.5 4.5 0 0 0-6.364-6.364l-4.5 4.5a4.5 4.5 0 0 0 1.242 7.244"/></svg>`}
	platformIconLookup  = func() map[string]platformIconAsset {
		lookup := make(map[string]platformIconAsset, len(platformIconDefinitions)+1)
		for _, icon := range platformIconDefinitions {
			lookup[icon.Key] = icon
		}
		lookup[defaultPlatformIcon.Key] = defaultPlatformIcon
		return lookup
	}()
)

// PlatformIconOptions exposes the selectable icon metadata for admin UI.
func PlatformIconOptions() []PlatformIconOption {
	options := make([]PlatformIconOption, 0, len(platformIconDefinitions))
	for _, icon := range platformIconDefinitions {
		options = append(options, PlatformIconOption{Key: icon.Key, Label: icon.Label})
	}
	return options
}

// PlatformIconSVGMap returns a copy of the key-to-SVG map including the default fallback.
func PlatformIconSVGMap() map[string]string {
	clones := make(map[string]string, len(platformIconLookup))
	for key, icon := range platformIconLookup {
		clones[key] = icon.SVG
	}
	return clones
}

// PlatformIconSVG resolves the SVG string for a given key, falling back to the default icon.
func PlatformIconSVG(key string) string {
	trimmed := strings.ToLower(strings.TrimSpace(key))
	if trimmed == "" {
		return defaultPlatformIcon.SVG
	}
	if icon, ok := platformIconLookup[trimmed]; ok {
		return icon.SVG
	}
	return defaultPlatformIcon.SVG
}

// DefaultPlatformIconSVG returns the fallback SVG.
func DefaultPlatformIconSVG() string {
	return defaultPlatformIcon.SVG
}
