package i18n

var english = map[string]string{
	KeySettingsTitle:          "Image Toolkit Settings",
	KeyViewImageGlobalName:    "Click and view an image globally",
	KeyViewImageGlobalDesc:    "You can zoom, rotate, drag, and invert an image on the popup layer after clicking it.",
	KeyViewImageEditorName:    "Click and view an image in the editor area",
	KeyViewImageEditorDesc:    "Turn this on to click and view images in the editor area.",
	KeyViewImageInCPBName:     "Click and view an image in the community plugins browser",
	KeyViewImageInCPBDesc:     "Turn this on to click and view images in the community plugins browser.",
	KeyViewImageWithALinkName: "Click and view an image with a link",
	KeyViewImageWithALinkDesc: "Turn this on to view images that are wrapped in a link. The link opens in the browser and the image pops up at the same time.",
	KeyMoveSpeedName:          "Moving the image",
	KeyMoveSpeedDesc:          "Moving speed of the image when using the arrow keys (up, down, left, right).",
	KeyFullScreenModeName:     "Full-screen preview mode",
	KeyModeFit:                "Fit",
	KeyModeFill:               "Fill",
	KeyModeStretch:            "Stretch",
}

var simplifiedChinese = map[string]string{
	KeySettingsTitle:          "图片工具设置",
	KeyViewImageGlobalName:    "全局点击查看图片",
	KeyViewImageGlobalDesc:    "点击图片后，可以在弹出层中缩放、旋转、拖动和反色图片。",
	KeyViewImageEditorName:    "在编辑区域点击查看图片",
	KeyViewImageEditorDesc:    "开启后，可以在编辑区域点击查看图片。",
	KeyViewImageInCPBName:     "在社区插件浏览器中点击查看图片",
	KeyViewImageInCPBDesc:     "开启后，可以在社区插件浏览器中点击查看图片。",
	KeyViewImageWithALinkName: "点击查看带链接的图片",
	KeyViewImageWithALinkDesc: "开启后，可以查看带链接的图片。点击时会在浏览器中打开链接，同时弹出图片。",
	KeyMoveSpeedName:          "移动图片",
	KeyMoveSpeedDesc:          "使用方向键（上、下、左、右）移动图片的速度。",
	KeyFullScreenModeName:     "全屏预览模式",
	KeyModeFit:                "适应",
	KeyModeFill:               "填充",
	KeyModeStretch:            "拉伸",
}

var traditionalChinese = map[string]string{
	KeySettingsTitle:          "圖片工具設定",
	KeyViewImageGlobalName:    "全域點擊檢視圖片",
	KeyViewImageGlobalDesc:    "點擊圖片後，可以在彈出層中縮放、旋轉、拖曳和反色圖片。",
	KeyViewImageEditorName:    "在編輯區域點擊檢視圖片",
	KeyViewImageEditorDesc:    "開啟後，可以在編輯區域點擊檢視圖片。",
	KeyViewImageInCPBName:     "在社群外掛瀏覽器中點擊檢視圖片",
	KeyViewImageInCPBDesc:     "開啟後，可以在社群外掛瀏覽器中點擊檢視圖片。",
	KeyViewImageWithALinkName: "點擊檢視帶連結的圖片",
	KeyViewImageWithALinkDesc: "開啟後，可以檢視帶連結的圖片。點擊時會在瀏覽器中開啟連結，同時彈出圖片。",
	KeyMoveSpeedName:          "移動圖片",
	KeyMoveSpeedDesc:          "使用方向鍵（上、下、左、右）移動圖片的速度。",
	KeyFullScreenModeName:     "全螢幕預覽模式",
	KeyModeFit:                "適應",
	KeyModeFill:               "填滿",
	KeyModeStretch:            "拉伸",
}
