package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/engine"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// parseSlots parses "CHAR:LEVEL[/CONE:RANK],...". An empty string is an
// empty team.
func parseSlots(s string) ([]engine.Slot, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) > core.MaxTeamSlots {
		return nil, fmt.Errorf("at most %d slots, got %d", core.MaxTeamSlots, len(parts))
	}

	slots := make([]engine.Slot, 0, len(parts))
	for i, part := range parts {
		slot, err := parseSlot(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func parseSlot(s string) (engine.Slot, error) {
	charPart, conePart, hasCone := strings.Cut(s, "/")

	var slot engine.Slot
	id, level, err := idLevel(charPart, 0)
	if err != nil {
		return slot, err
	}
	if level < 0 || level >= profile.CharacterLevels {
		return slot, fmt.Errorf("character level %d out of range 0..%d", level, profile.CharacterLevels-1)
	}
	slot.CharacterID, slot.Level = id, level

	if hasCone {
		id, rank, err := idLevel(conePart, 1)
		if err != nil {
			return slot, err
		}
		if rank < 1 || rank > profile.EquipmentLevels {
			return slot, fmt.Errorf("light cone rank %d out of range 1..%d", rank, profile.EquipmentLevels)
		}
		slot.EquipmentID, slot.EquipmentLevel = id, rank
	}
	return slot, nil
}

// idLevel splits "ID:N". A missing ":N" yields def.
func idLevel(s string, def int) (string, int, error) {
	id, num, ok := strings.Cut(s, ":")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", 0, fmt.Errorf("missing id in %q", s)
	}
	if !ok {
		return id, def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return "", 0, fmt.Errorf("bad level in %q", s)
	}
	return id, n, nil
}
