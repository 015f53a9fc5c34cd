// Package xml provides the XML parser and writer for configuration documents.
//
// Documents are read and written with github.com/beevik/etree:
//
//	<configuration id="..." group="billing" application="invoicer" name="production" version="1.4.0">
//	  <header>
//	    <description>Invoicer production settings</description>
//	    <createdBy user="alice" timestamp="2024-01-02T03:04:05Z"/>
//	    <updatedBy user="bob" timestamp="1704164645000"/>
//	  </header>
//	  <root>
//	    <invoicer>
//	      <server host="0.0.0.0" port="8080">
//	        <parameters><retries>3</retries></parameters>
//	      </server>
//	      <hosts>
//	        <host>a.example.org</host>
//	        <host>b.example.org</host>
//	      </hosts>
//	      <password _type="encrypted">c2VjcmV0</password>
//	      <shared _type="include" location="shared.xml"/>
//	      <bundle _type="resource" kind="zip" location="https://example.org/b.zip" resourceName="b.zip"/>
//	    </invoicer>
//	  </root>
//	</configuration>
//
// The single element inside <root> is the tree root, so "/invoicer/server@port" finds 8080.
// Text-only elements become value nodes and XML attributes the attributes node of their
// element. An element whose children all share one tag, or that carries _type="list",
// becomes a list. Encode writes the same shape, so a written configuration parses back
// to an equivalent tree.
package xml
