package descriptions

// Tool descriptions with practical examples and use cases

const (
	PDFExtractHighlightsDescription = `Extract highlight annotations from a PDF document in reading order.

**When to use:** Need the passages a reader marked in a PDF, with their colors and comments, for notes, citations or review.

**Why it's useful:** Each highlight comes back with the text under it, a color tag (Red, Orange, Yellow, Green, Blue, Purple), the reader's comment and optionally a PNG snippet of the marked area, sorted page by page from top to bottom.

**Examples:**
• Collect reading notes: "List every highlight in paper.pdf with its comment"
• Group by color: "Extract highlights from book.pdf as json and group the Green ones"
• Scanned pages: "Get highlight snippets from scan.pdf" (images carry the content when there is no text layer)

**Common workflows:**
1. Note taking: pdf_validate_file → pdf_extract_highlights → summarize by color tag
2. Citation building: pdf_extract_highlights (format=json) → use page and text for references
3. Quick review: pdf_extract_highlights (include_images=false) for a fast text-only pass

**Best practices:** Disable images for large documents when only text is needed. Snippets require Ghostscript on the server; without it text is still returned.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before extracting highlights from a file you have not seen before, especially user uploads.

**Why it's useful:** Reports the page count and catches corrupted or non-PDF files early with a readable reason.

**Examples:**
• Upload verification: "Check annotated-contract.pdf is valid before extracting highlights"
• Quick facts: "How many pages does thesis.pdf have?"

**Best practices:** Paths are resolved against the configured directory; files outside it are rejected.`
)

// Parameter descriptions shared by the tools
const (
	PathParamDescription          = "Path to the PDF file, absolute or relative to the configured directory"
	IncludeImagesParamDescription = "Render pages and attach a PNG snippet (data URL) of each highlight"
	FormatParamDescription        = "Output format: 'text' for a readable list, 'json' for the full result"
)
