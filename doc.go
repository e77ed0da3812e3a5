/*
Package readability extracts the primary readable article from an
arbitrary HTML page: title, byline, language/direction, excerpt, site
name, publication time, and a cleaned HTML fragment containing the main
prose. It reproduces the behavior of Mozilla's Readability algorithm.

Basic usage:

	result, err := readability.Parse(htmlString, "https://example.com/article")
	if err != nil {
		// Handle error
	}
	fmt.Println(result.Title)
	fmt.Println(result.Content)

The readerable probe can be run independently of extraction:

	if readability.IsProbablyReaderable(htmlString, nil) {
		result, err := readability.Parse(htmlString, uri)
	}
*/
package readability
