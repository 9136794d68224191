// Package extract recovers duty schedule fields from the portal's
// day-detail HTML fragments.
//
// The portal renders a given day in several inconsistent shapes, so
// extraction runs as a cascade of strategies of decreasing specificity:
// the native duty-detail tables first, then any recognizable data table,
// then a regex sweep over the flattened text. The first strategy to
// produce records wins. Strategies never fail hard: malformed input
// yields an empty result and the next strategy gets its turn.
package extract
