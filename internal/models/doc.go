// Package models defines the data-transfer types shared by the aggregation
// core: artists and releases as validated at the streaming-API boundary, and
// the derived genre and week statistics handed to output layers.
package models
