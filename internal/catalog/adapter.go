package catalog

// adapter.go normalizes the loosely-shaped catalog payloads served by the
// different catalog endpoints into strict Character / Equipment values.
//
// Endpoints disagree on field names ("code" vs "characterId", "subname" vs
// "sub_name", "lightCones" vs "equipment") and sometimes wrap everything in
// a "data" object. Every alias is listed here so the rest of the module only
// ever sees the strict types.

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	characterListKeys = []string{"characters", "chars", "avatars"}
	equipmentListKeys = []string{"lightCones", "light_cones", "lightcones", "equipment", "equipments", "weapons"}

	characterCodeKeys = []string{"code", "characterId", "character_id", "id"}
	equipmentIDKeys   = []string{"id", "lightConeId", "light_cone_id", "equipmentId", "code"}
	nameKeys          = []string{"name", "displayName", "display_name"}
	subnameKeys       = []string{"subname", "subName", "sub_name", "signature", "title"}
	rarityKeys        = []string{"rarity", "stars", "star"}
	imageKeys         = []string{"imageRef", "image", "imageUrl", "image_url", "icon", "avatar"}
	limitedKeys       = []string{"limited", "isLimited", "is_limited"}
)

// ParseJSON converts a catalog payload into a Snapshot. Entries missing an
// identifier or a name are skipped, as are repeated identifiers (first wins).
func ParseJSON(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse catalog: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if d := root.Get("data"); d.IsObject() {
		root = d
	}

	var characters []Character
	seenChars := make(map[string]bool)
	firstOf(root, characterListKeys...).ForEach(func(_, v gjson.Result) bool {
		code := strings.TrimSpace(firstOf(v, characterCodeKeys...).String())
		name := strings.TrimSpace(firstOf(v, nameKeys...).String())
		if code == "" || name == "" || seenChars[code] {
			return true
		}
		seenChars[code] = true
		characters = append(characters, Character{
			Code:     code,
			Name:     name,
			Subname:  strings.TrimSpace(firstOf(v, subnameKeys...).String()),
			Rarity:   int(firstOf(v, rarityKeys...).Int()),
			ImageRef: firstOf(v, imageKeys...).String(),
		})
		return true
	})

	var equipment []Equipment
	seenEquip := make(map[string]bool)
	firstOf(root, equipmentListKeys...).ForEach(func(_, v gjson.Result) bool {
		id := strings.TrimSpace(firstOf(v, equipmentIDKeys...).String())
		name := strings.TrimSpace(firstOf(v, nameKeys...).String())
		if id == "" || name == "" || seenEquip[id] {
			return true
		}
		seenEquip[id] = true
		equipment = append(equipment, Equipment{
			ID:       id,
			Name:     name,
			Subname:  strings.TrimSpace(firstOf(v, subnameKeys...).String()),
			Rarity:   int(firstOf(v, rarityKeys...).Int()),
			Limited:  firstOf(v, limitedKeys...).Bool(),
			ImageRef: firstOf(v, imageKeys...).String(),
		})
		return true
	})

	if len(characters) == 0 && len(equipment) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(characters, equipment)
}

// firstOf returns the first key present on v.
func firstOf(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
