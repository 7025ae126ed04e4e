package pagination

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 15

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 100

// PageMaxNumber bounds the page number so (page-1)*per_page stays small.
const PageMaxNumber = 10000
