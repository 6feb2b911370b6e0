// Package ranker computes change-percentage rankings ("top movers")
// over rolling windows.
//
// Rankings compare a latest and a reference price snapshot per item.
// Items missing either side, or with a non-positive price, are excluded
// rather than zero-filled. For the 24h window, an item with exactly one
// in-window sample takes its reference from the most recent sample
// strictly before the window start, so a price is never compared to
// itself.
package ranker
