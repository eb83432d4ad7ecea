package epub

const mimetypeContent = "application/epub+zip"

// containerXML points readers at the package document. The path is fixed
// because the writer always lays the book out under OEBPS/.
const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`
