package constant

// AsciiArtLogo is printed above the root command help.
const AsciiArtLogo = `
 _  _  __    __  _  _  ____
/ )( \(  )  (  )/ )( \(  __)
\ \/ // (_/\ )( \ \/ / ) _)
 \__/ \____/(__) \__/ (____)`
