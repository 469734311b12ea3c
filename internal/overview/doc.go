// Package overview renders the static overview page of the business
// education agent: one card per component, each with an example tab and a
// details tab, served over HTTP together with a JSON listing.
package overview
