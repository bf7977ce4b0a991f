package extraction

import "github.com/antchfx/xpath"

var (
	titlePath           = xpath.MustCompile("/meta/picture/web_information/caption")
	descriptionPath     = xpath.MustCompile("/meta/picture/web_information/alt_tag")
	onlineSourcePath    = xpath.MustCompile("/meta/picture/web_information/online-source")
	manualSourcePath    = xpath.MustCompile("/meta/picture/web_information/manual-source")
	syndicationPath     = xpath.MustCompile("/meta/picture/web_information/syndication")
	imageTypePath       = xpath.MustCompile("/meta/picture/imageType")
	externalURLPath     = xpath.MustCompile("/meta/picture/ExternalUrl")
	rightsGroupPath     = xpath.MustCompile("/meta/picture/rights_group")
	masterAuthorityPath = xpath.MustCompile("/meta/picture/master_source/authority")
	masterIDPath        = xpath.MustCompile("/meta/picture/master_source/identifier")

	widthPath    = xpath.MustCompile("/props/imageInfo/width")
	heightPath   = xpath.MustCompile("/props/imageInfo/height")
	fileTypePath = xpath.MustCompile("/props/imageInfo/fileType")

	webPublicationDatesPath = xpath.MustCompile("/tl/t[tp='web_publication']/cd")
)
