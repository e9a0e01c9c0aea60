// Package khinsider parses the catalog's album listing and track detail
// pages.
//
// # Album Pages
//
// An album page carries the album name in its first h2 heading and lists
// tracks in a table with id "songlist":
//
//	<h2>Album Name</h2>
//	<table id="songlist">
//	  <tr><th>CD</th><th>#</th><th>Song Name</th></tr>
//	  <tr><td>1</td><td>1.</td><td><a href="/album/x/01.mp3">Opening</a></td></tr>
//	  <tr id="songlist_footer"><th></th><th></th><th></th></tr>
//	</table>
//
// Use ResolveAlbum to fetch and parse one:
//
//	album, err := khinsider.ResolveAlbum(ctx, client, albumURL)
//
// # Track Pages
//
// A track page embeds the real audio location in the src attribute of the
// element with id "audio":
//
//	source, err := khinsider.ResolveAudioSource(ctx, client, track)
//
// # Extraction
//
// The Extract functions are pure and work on markup strings, so they can be
// tested against inline fixtures. They query the page through the Node
// interface, which ParseHTML backs with goquery.
package khinsider
