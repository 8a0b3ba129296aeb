// Package list implements S3 object listing with transparent pagination.
//
// A Lister fetches single pages through ListPage or walks a full listing
// through the Paginator returned by Pages. The public List and ListAll
// client operations and the sync remote scanner all share this package,
// so continuation-token handling lives in exactly one place.
package list
